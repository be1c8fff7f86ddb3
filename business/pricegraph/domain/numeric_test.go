package domain

import (
	"math"
	"math/big"
	"testing"
)

func TestIsDustAmount(t *testing.T) {
	cases := []struct {
		amount    int64
		threshold int64
		want      bool
	}{
		{0, 1, true},
		{1, 1, false},
		{1000, 1, false},
	}
	for _, c := range cases {
		got := IsDustAmount(big.NewInt(c.amount), c.threshold)
		if got != c.want {
			t.Errorf("IsDustAmount(%d, %d) = %v, want %v", c.amount, c.threshold, got, c.want)
		}
	}
}

func TestEffectivePrice_AppliesFee(t *testing.T) {
	// price = 1/1 before fee; effective price must be exactly phi.
	got := EffectivePrice(big.NewInt(1), big.NewInt(1))
	want := float64(FeeNumerator) / float64(FeeDenominator)
	if got != want {
		t.Errorf("EffectivePrice(1,1) = %v, want %v", got, want)
	}
}

func TestEffectivePrice_ZeroDenominator(t *testing.T) {
	got := EffectivePrice(big.NewInt(1), big.NewInt(0))
	if got != 0 {
		t.Errorf("EffectivePrice with zero denominator = %v, want 0", got)
	}
}

func TestWeightFromEffectivePrice_RoundTrip(t *testing.T) {
	pEff := 1.5
	weight, ok := WeightFromEffectivePrice(pEff)
	if !ok {
		t.Fatal("expected ok=true for a valid positive finite price")
	}
	got := EffectivePriceFromWeight(weight)
	if math.Abs(got-pEff) > 1e-12 {
		t.Errorf("round-tripped price = %v, want %v", got, pEff)
	}
	if weight >= 0 {
		t.Errorf("expected a profitable (>1) effective price to yield a negative weight, got %v", weight)
	}
}

func TestWeightFromEffectivePrice_RejectsNonPositive(t *testing.T) {
	for _, p := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, ok := WeightFromEffectivePrice(p); ok {
			t.Errorf("WeightFromEffectivePrice(%v) unexpectedly ok", p)
		}
	}
}

func TestSaturatingAtomsToFloat_Saturates(t *testing.T) {
	// 2^1024 is the smallest power of two above math.MaxFloat64.
	huge := new(big.Int).Lsh(big.NewInt(1), 1024)
	got := SaturatingAtomsToFloat(huge)
	if !math.IsInf(got, 1) {
		t.Errorf("expected saturation to +Inf for a 2^1024 amount, got %v", got)
	}
}

func TestMinBigInt(t *testing.T) {
	a := big.NewInt(5)
	b := big.NewInt(10)
	if got := MinBigInt(a, b); got.Cmp(a) != 0 {
		t.Errorf("MinBigInt(5, 10) = %v, want 5", got)
	}
	if got := MinBigInt(b, a); got.Cmp(a) != 0 {
		t.Errorf("MinBigInt(10, 5) = %v, want 5", got)
	}
	// Must not mutate inputs.
	_ = MinBigInt(a, b)
	if a.Int64() != 5 || b.Int64() != 10 {
		t.Error("MinBigInt mutated one of its arguments")
	}
}
