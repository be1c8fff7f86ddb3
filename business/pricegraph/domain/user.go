package domain

import "math/big"

// UserBalances tracks one owner's per-token sell balance. A user's balance
// in a token is shared by every order that sells that token - it is the
// binding joint constraint across all of that user's outgoing edges
// (spec.md §3 invariant 2, §9 "do not pre-materialize per-edge capacity").
type UserBalances struct {
	balances map[TokenID]*big.Int
}

// NewUserBalances creates an empty balance table.
func NewUserBalances() *UserBalances {
	return &UserBalances{balances: make(map[TokenID]*big.Int)}
}

// Set records balance for token, overwriting any prior value.
func (u *UserBalances) Set(token TokenID, balance *big.Int) {
	u.balances[token] = new(big.Int).Set(balance)
}

// Balance returns the current balance for token, or zero if none was ever
// recorded.
func (u *UserBalances) Balance(token TokenID) *big.Int {
	if b, ok := u.balances[token]; ok {
		return new(big.Int).Set(b)
	}
	return big.NewInt(0)
}

// Debit decrements the balance for token by amount, erroring rather than
// going negative - apply_fill's InsufficientCapacity guard (spec.md §4.3).
func (u *UserBalances) Debit(token TokenID, amount *big.Int) error {
	cur, ok := u.balances[token]
	if !ok || cur.Cmp(amount) < 0 {
		return &FillError{Code: "InsufficientCapacity", Detail: "balance debit would go negative"}
	}
	u.balances[token] = new(big.Int).Sub(cur, amount)
	return nil
}

// Clone returns a deep copy, used when a query clones the canonical
// orderbook before running its own fill loop (spec.md §5).
func (u *UserBalances) Clone() *UserBalances {
	clone := NewUserBalances()
	for token, bal := range u.balances {
		clone.balances[token] = new(big.Int).Set(bal)
	}
	return clone
}

// FillError reports a failure applying a fill - either InsufficientCapacity
// (the caller asked for more than is available) or an internal invariant
// violation that the façade turns into InternalError.
type FillError struct {
	Code   string
	Detail string
}

func (e *FillError) Error() string {
	return e.Code + ": " + e.Detail
}
