package circuitbreaker

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker/v2"
)

func TestCircuitBreaker_ExecuteSuccess(t *testing.T) {
	cb := New[int](DefaultConfig("test"))

	got, err := cb.Execute(func() (int, error) { return 42, nil })
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected the breaker to stay closed after a success, got %v", cb.State())
	}
}

func TestCircuitBreaker_TripsAfterFailureRatio(t *testing.T) {
	cfg := DefaultConfig("test-trip")
	cb := New[int](cfg)

	boom := errors.New("boom")
	for i := 0; i < 5; i++ {
		_, _ = cb.Execute(func() (int, error) { return 0, boom })
	}

	if cb.State() != gobreaker.StateOpen {
		t.Errorf("expected the breaker to open after 5 consecutive failures, got %v", cb.State())
	}

	_, err := cb.Execute(func() (int, error) { return 1, nil })
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState while the breaker is open, got %v", err)
	}
}

func TestDefaultConfig_CarriesName(t *testing.T) {
	cfg := DefaultConfig("my-dependency")
	if cfg.Name != "my-dependency" {
		t.Errorf("expected Name to be set from the argument, got %q", cfg.Name)
	}
	if cfg.MaxRequests == 0 {
		t.Error("expected a non-zero MaxRequests default")
	}
}
