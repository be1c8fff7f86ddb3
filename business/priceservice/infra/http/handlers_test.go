package http

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	pgapp "github.com/pricegraph/pricegraph/business/pricegraph/app"
	"github.com/pricegraph/pricegraph/business/pricegraph/domain"
	"github.com/pricegraph/pricegraph/business/priceservice/app"
	"github.com/pricegraph/pricegraph/internal/logger"
)

type staticSource struct {
	data  []byte
	batch uint32
}

func (s *staticSource) Load(ctx context.Context) ([]byte, uint32, error) {
	return s.data, s.batch, nil
}

func encodeOneOrder(t *testing.T, sell, buy uint16, num, den int64) []byte {
	t.Helper()
	buf := make([]byte, domain.ElementStride)
	buf[19] = 1
	balance := big.NewInt(1000).Bytes()
	copy(buf[52-len(balance):52], balance)
	putLE16(buf[52:54], buy)
	putLE16(buf[54:56], sell)
	putLE32(buf[56:60], 0)
	putLE32(buf[60:64], 1000)
	putLE128(buf[64:80], big.NewInt(num))
	putLE128(buf[80:96], big.NewInt(den))
	putLE128(buf[96:112], big.NewInt(1000))
	putLE16(buf[112:114], 1)
	return buf
}

func putLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func putLE128(b []byte, v *big.Int) {
	be := v.Bytes()
	for i, bb := range be {
		b[len(be)-1-i] = bb
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	factory := func(elements []domain.Element, batch domain.BatchID) (*pgapp.Pricegraph, error) {
		return pgapp.New(elements, batch, domain.DefaultDustThreshold, 3)
	}
	source := &staticSource{data: encodeOneOrder(t, 1, 2, 2, 1), batch: 10}
	svc := app.New(factory, source, logger.NewNop(), 3)
	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	return NewRouter(svc, logger.NewNop(), nil)
}

func TestHandlers_Markets_DefaultFloatVolume(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/markets/1-2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Asks []struct {
			Price  float64 `json:"price"`
			Volume float64 `json:"volume"`
		} `json:"asks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Asks) != 1 || out.Asks[0].Volume != 1000 {
		t.Errorf("unexpected asks: %+v", out.Asks)
	}
}

func TestHandlers_Markets_AtomsTrueUsesExactStrings(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/markets/1-2?atoms=true", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out struct {
		Asks []struct {
			Volume string `json:"volume"`
		} `json:"asks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Asks) != 1 || out.Asks[0].Volume != "1000" {
		t.Errorf("expected an exact atom-count string, got %+v", out.Asks)
	}
}

func TestHandlers_Markets_InvalidPairIs400(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/markets/not-a-pair-at-all", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a malformed pair, got %d", rec.Code)
	}
}

func TestHandlers_EstimatedBestAskPrice_NoPathReturnsNull(t *testing.T) {
	router := newTestRouter(t)

	// Reverse direction: no order sells 2 for 1, so no path exists.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/markets/2-1/estimated-best-ask-price", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Price *float64 `json:"price"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Price != nil {
		t.Errorf("expected a null price when no path exists, got %v", *out.Price)
	}
}

func TestHandlers_EstimatedBuyAmount_InvalidAmountIs400(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/markets/1-2/estimated-buy-amount/not-a-number", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a non-numeric amount, got %d", rec.Code)
	}
}
