package domain

import (
	"math"
	"math/big"
)

// FeeNumerator and FeeDenominator express the constant fee ratio
// phi = 999/1000 (a 0.1% taker fee) as an exact rational, avoiding any
// float rounding in the one place it matters most: deriving p_eff from an
// order's own integer price fraction.
const (
	FeeNumerator   = 999
	FeeDenominator = 1000
)

// DefaultDustThreshold is the smallest non-dust remaining-sell amount, in
// atoms. Amounts strictly below this are treated as exhausted.
const DefaultDustThreshold = 1

// IsDustAmount reports whether amount (in atoms) is below threshold and
// should be treated as zero.
func IsDustAmount(amount *big.Int, threshold int64) bool {
	return amount.Cmp(big.NewInt(threshold)) < 0
}

// EffectivePrice computes p_eff = (numerator/denominator) * phi as a
// float64, rounding to nearest and saturating to +Inf on overflow. A
// non-positive or non-finite result signals the edge should be dropped
// from the graph (spec.md §4.2, §4.9).
func EffectivePrice(numerator, denominator *big.Int) float64 {
	if denominator.Sign() == 0 {
		return 0
	}
	p := bigRatToFloat(numerator, denominator)
	if !isStrictlyPositiveAndFinite(p) {
		return p
	}
	pEff := p * (float64(FeeNumerator) / float64(FeeDenominator))
	return pEff
}

// bigRatToFloat converts the ratio num/den to a float64 via big.Rat, which
// performs an integer-exact division that rounds to the nearest
// representable float64 - the rounding behaviour spec.md §4.2 calls for.
func bigRatToFloat(num, den *big.Int) float64 {
	r := new(big.Rat).SetFrac(num, den)
	f, _ := new(big.Float).SetRat(r).Float64()
	return f
}

// isStrictlyPositiveAndFinite reports whether value lies in (0, +Inf).
// Mirrors the original engine's NaN-aware float comparison helper:
// floats have no total order because of NaN, so cmp.Ordering-style helpers
// are unsafe here - a direct range check is not.
func isStrictlyPositiveAndFinite(value float64) bool {
	return value > 0 && value < math.Inf(1)
}

// Weight is a price graph edge weight: -ln(p_eff) in float64 space. Lower
// is cheaper; a negative weight means p_eff > 1 (profitable, i.e. part of
// a ring when summed around a cycle).
type Weight float64

// InfiniteWeight marks "no edge" - used as the zero value for unreachable
// nodes during path search.
var InfiniteWeight Weight = Weight(math.Inf(1))

// WeightFromEffectivePrice computes the graph edge weight for an order
// whose effective price is pEff. Returns (weight, ok); ok is false when
// pEff is non-positive or non-finite, signalling the edge must be dropped.
func WeightFromEffectivePrice(pEff float64) (Weight, bool) {
	if !isStrictlyPositiveAndFinite(pEff) {
		return InfiniteWeight, false
	}
	return Weight(-math.Log(pEff)), true
}

// EffectivePriceFromWeight inverts WeightFromEffectivePrice, used when
// reporting a path's aggregate price back to callers (spec.md §4.2: sums
// happen in weight space, products are computed only at the query
// boundary).
func EffectivePriceFromWeight(w Weight) float64 {
	return math.Exp(-float64(w))
}

// SaturatingAtomsToFloat converts an unsigned atom amount to a float64,
// saturating to +Inf rather than panicking when the magnitude exceeds
// float64's range. Wire-format values (amounts up to 2^128-1, balances up
// to 2^256-1) are all well inside that range and only lose precision.
func SaturatingAtomsToFloat(amount *big.Int) float64 {
	// big.Float.Float64 already saturates to +/-Inf on overflow; no
	// special-casing needed here.
	v, _ := new(big.Float).SetInt(amount).Float64()
	return v
}

// MinBigInt returns the smaller of a and b without mutating either.
func MinBigInt(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}
