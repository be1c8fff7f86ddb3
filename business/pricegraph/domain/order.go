package domain

import "math/big"

// Order is a resting limit sell order admitted into the orderbook: an
// Element that survived decoding, validity-window filtering, and the
// zero-remaining / zero-balance prune (spec.md §4.3).
type Order struct {
	ID                  OrderID
	Owner               UserID
	Pair                TokenPair // Sell -> Buy
	Valid               Validity
	Price               PriceFraction
	RemainingSellAmount *big.Int

	// EffectivePrice and Weight are derived once at admission time and
	// never change on a fill - only capacity does (spec.md §4.4).
	EffectivePrice float64
	Weight         Weight
	Unbounded      bool
}

// NewOrder derives an Order from a decoded Element, computing its
// effective price and edge weight. ok is false when the effective price
// overflows or is non-positive - per spec.md §4.9 the edge is silently
// dropped, logged once per rebuild by the caller.
func NewOrder(el Element) (Order, bool) {
	pEff := EffectivePrice(el.Price.Numerator, el.Price.Denominator)
	weight, ok := WeightFromEffectivePrice(pEff)
	if !ok {
		return Order{}, false
	}
	return Order{
		ID:                  el.OrderID,
		Owner:               el.Owner,
		Pair:                el.Pair,
		Valid:               el.Valid,
		Price:               el.Price,
		RemainingSellAmount: new(big.Int).Set(el.RemainingSellAmount),
		EffectivePrice:      pEff,
		Weight:              weight,
		Unbounded:           el.Price.IsUnbounded(),
	}, true
}

// EffectiveAmount returns the order's currently fillable sell amount: the
// lesser of its own remaining-sell and the owner's balance in the sell
// token (spec.md §4.3's capacity formula, before the dust check). An
// unbounded (market) order ignores its own remaining-sell and is capped
// by the owner's balance alone.
func (o *Order) EffectiveAmount(ownerBalance *big.Int) *big.Int {
	if o.Unbounded {
		return new(big.Int).Set(ownerBalance)
	}
	return MinBigInt(o.RemainingSellAmount, ownerBalance)
}

// IsActive reports whether the order is valid at batch and has not been
// exhausted down to dust.
func (o *Order) IsActive(batch BatchID, dustThreshold int64) bool {
	return o.Valid.Contains(batch) && !IsDustAmount(o.RemainingSellAmount, dustThreshold)
}

// ApplyFill decrements the order's own remaining-sell by sellAmount,
// erroring if that would go negative.
func (o *Order) ApplyFill(sellAmount *big.Int) error {
	if o.RemainingSellAmount.Cmp(sellAmount) < 0 {
		return &FillError{Code: "InsufficientCapacity", Detail: "fill exceeds order's remaining-sell"}
	}
	o.RemainingSellAmount = new(big.Int).Sub(o.RemainingSellAmount, sellAmount)
	return nil
}

// Clone returns a deep copy of the order, used when a query clones the
// canonical orderbook.
func (o *Order) Clone() Order {
	clone := *o
	clone.RemainingSellAmount = new(big.Int).Set(o.RemainingSellAmount)
	clone.Price = PriceFraction{
		Numerator:   new(big.Int).Set(o.Price.Numerator),
		Denominator: new(big.Int).Set(o.Price.Denominator),
	}
	return clone
}
