package domain

import "math/big"

// OrderRef is an opaque handle to an order within one Orderbook instance.
// The wire format's own order-id is only unique per owner (see
// encoding.go), so the orderbook indexes orders by this internal
// reference instead; callers needing the owner-scoped id can read it off
// the Order itself.
type OrderRef int

// Orderbook is the canonical collection of active orders plus the
// per-(user, token) sell-balance table that constrains them jointly
// (spec.md §4.3).
type Orderbook struct {
	orders        []Order
	users         map[UserID]*UserBalances
	batch         BatchID
	dustThreshold int64
}

// InconsistentBalanceError signals that two records for the same
// (user, token) disagreed on the on-chain balance.
type InconsistentBalanceError struct {
	User  UserID
	Token TokenID
}

func (e *InconsistentBalanceError) Error() string {
	return "InconsistentBalance: conflicting balances for user/token pair"
}

// NewOrderbook constructs an Orderbook from decoded elements at batch,
// retaining only orders whose validity window contains batch and whose
// remaining-sell and owner sell-balance are both non-dust (spec.md §4.3).
// Elements for the same (user, sell-token) MUST report an identical
// balance; otherwise InconsistentBalanceError is returned.
func NewOrderbook(elements []Element, batch BatchID, dustThreshold int64) (*Orderbook, error) {
	users := make(map[UserID]*UserBalances)

	for _, el := range elements {
		ub, ok := users[el.Owner]
		if !ok {
			ub = NewUserBalances()
			users[el.Owner] = ub
		}
		if existing := ub.balances[el.Pair.Sell]; existing != nil {
			if existing.Cmp(el.Balance) != 0 {
				return nil, &InconsistentBalanceError{User: el.Owner, Token: el.Pair.Sell}
			}
			continue
		}
		ub.Set(el.Pair.Sell, el.Balance)
	}

	ob := &Orderbook{
		users:         users,
		batch:         batch,
		dustThreshold: dustThreshold,
	}

	for _, el := range elements {
		if !el.Valid.Contains(batch) {
			continue
		}
		order, ok := NewOrder(el)
		if !ok {
			continue // overflowed effective price; dropped per spec.md §4.9
		}
		ownerBalance := users[el.Owner].Balance(el.Pair.Sell)
		effective := order.EffectiveAmount(ownerBalance)
		if IsDustAmount(effective, dustThreshold) {
			continue
		}
		ob.orders = append(ob.orders, order)
	}

	return ob, nil
}

// Batch returns the batch id this orderbook was constructed for.
func (ob *Orderbook) Batch() BatchID {
	return ob.batch
}

// DustThreshold returns the configured dust threshold, in atoms.
func (ob *Orderbook) DustThreshold() int64 {
	return ob.dustThreshold
}

// Orders returns the live order refs, in construction order.
func (ob *Orderbook) Orders() []OrderRef {
	refs := make([]OrderRef, len(ob.orders))
	for i := range ob.orders {
		refs[i] = OrderRef(i)
	}
	return refs
}

// Order returns a pointer to the order identified by ref. The pointer
// aliases the orderbook's internal storage; callers must not retain it
// across a Clone.
func (ob *Orderbook) Order(ref OrderRef) *Order {
	return &ob.orders[ref]
}

// Balance returns user's current balance in token.
func (ob *Orderbook) Balance(user UserID, token TokenID) *big.Int {
	ub, ok := ob.users[user]
	if !ok {
		return big.NewInt(0)
	}
	return ub.Balance(token)
}

// EffectiveAmount returns the currently fillable sell amount for ref:
// min(remaining-sell, owner balance in sell-token).
func (ob *Orderbook) EffectiveAmount(ref OrderRef) *big.Int {
	o := ob.Order(ref)
	return o.EffectiveAmount(ob.Balance(o.Owner, o.Pair.Sell))
}

// IsDust reports whether ref's effective amount is strictly below the
// dust threshold.
func (ob *Orderbook) IsDust(ref OrderRef) bool {
	return IsDustAmount(ob.EffectiveAmount(ref), ob.dustThreshold)
}

// ApplyFill decrements ref's order remaining-sell and its owner's balance
// in the order's sell-token by sellAmount, and returns every other order
// ref that shares the same (owner, sell-token) - the edges whose capacity
// must be recomputed by the caller (spec.md §4.4's "touched edges").
// Errors with InsufficientCapacity (via FillError) if either decrement
// would go negative.
func (ob *Orderbook) ApplyFill(ref OrderRef, sellAmount *big.Int) ([]OrderRef, error) {
	order := ob.Order(ref)

	if err := order.ApplyFill(sellAmount); err != nil {
		return nil, err
	}

	ub := ob.users[order.Owner]
	if ub == nil {
		return nil, &FillError{Code: "InsufficientCapacity", Detail: "owner has no balance record"}
	}
	if err := ub.Debit(order.Pair.Sell, sellAmount); err != nil {
		// roll back the order-side decrement to keep the orderbook consistent
		order.RemainingSellAmount = new(big.Int).Add(order.RemainingSellAmount, sellAmount)
		return nil, err
	}

	return ob.touchedRefs(order.Owner, order.Pair.Sell, ref), nil
}

func (ob *Orderbook) touchedRefs(owner UserID, sellToken TokenID, exclude OrderRef) []OrderRef {
	var touched []OrderRef
	for i := range ob.orders {
		ref := OrderRef(i)
		if ref == exclude {
			continue
		}
		o := &ob.orders[i]
		if o.Owner == owner && o.Pair.Sell == sellToken {
			touched = append(touched, ref)
		}
	}
	return touched
}

// Filter returns a new Orderbook retaining only orders for which keep
// returns true (used by callers to blacklist tokens or users; spec.md
// §4.3).
func (ob *Orderbook) Filter(keep func(Order) bool) *Orderbook {
	clone := ob.Clone()
	filtered := clone.orders[:0]
	for _, o := range clone.orders {
		if keep(o) {
			filtered = append(filtered, o)
		}
	}
	clone.orders = filtered
	return clone
}

// FilterRefs returns a new Orderbook retaining only the order refs for
// which keep returns true. Used where the decision needs the ref itself
// (e.g. a subgraph projection computed against this orderbook's indices)
// rather than just the Order value.
func (ob *Orderbook) FilterRefs(keep func(OrderRef) bool) *Orderbook {
	clone := ob.Clone()
	filtered := clone.orders[:0]
	for i, o := range clone.orders {
		if keep(OrderRef(i)) {
			filtered = append(filtered, o)
		}
	}
	clone.orders = filtered
	return clone
}

// Clone returns a deep copy, safe to mutate independently via the fill
// loop (spec.md §5).
func (ob *Orderbook) Clone() *Orderbook {
	clone := &Orderbook{
		orders:        make([]Order, len(ob.orders)),
		users:         make(map[UserID]*UserBalances, len(ob.users)),
		batch:         ob.batch,
		dustThreshold: ob.dustThreshold,
	}
	for i, o := range ob.orders {
		clone.orders[i] = o.Clone()
	}
	for user, ub := range ob.users {
		clone.users[user] = ub.Clone()
	}
	return clone
}
