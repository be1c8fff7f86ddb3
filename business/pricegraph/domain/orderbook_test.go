package domain

import (
	"math/big"
	"testing"
)

func addr(b byte) UserID {
	var a UserID
	a[19] = b
	return a
}

func priceOf(num, den int64) PriceFraction {
	return PriceFraction{Numerator: big.NewInt(num), Denominator: big.NewInt(den)}
}

func TestNewOrderbook_DropsExpiredOrders(t *testing.T) {
	elements := []Element{
		{
			Owner: addr(1), Balance: big.NewInt(1000),
			Pair: TokenPair{Sell: 1, Buy: 2}, Valid: Validity{From: 0, To: 5},
			Price: priceOf(1, 1), RemainingSellAmount: big.NewInt(1000), OrderID: 1,
		},
	}
	ob, err := NewOrderbook(elements, 10, DefaultDustThreshold)
	if err != nil {
		t.Fatalf("NewOrderbook: %v", err)
	}
	if len(ob.Orders()) != 0 {
		t.Errorf("expected the expired order to be dropped, got %d live orders", len(ob.Orders()))
	}
}

func TestNewOrderbook_DropsDustOrders(t *testing.T) {
	elements := []Element{
		{
			Owner: addr(1), Balance: big.NewInt(1000),
			Pair: TokenPair{Sell: 1, Buy: 2}, Valid: Validity{From: 0, To: 100},
			Price: priceOf(1, 1), RemainingSellAmount: big.NewInt(0), OrderID: 1,
		},
	}
	ob, err := NewOrderbook(elements, 10, DefaultDustThreshold)
	if err != nil {
		t.Fatalf("NewOrderbook: %v", err)
	}
	if len(ob.Orders()) != 0 {
		t.Errorf("expected a zero-remaining order to be dropped as dust, got %d live orders", len(ob.Orders()))
	}
}

func TestNewOrderbook_DropsZeroBalanceOrders(t *testing.T) {
	elements := []Element{
		{
			Owner: addr(1), Balance: big.NewInt(0),
			Pair: TokenPair{Sell: 1, Buy: 2}, Valid: Validity{From: 0, To: 100},
			Price: priceOf(1, 1), RemainingSellAmount: big.NewInt(1000), OrderID: 1,
		},
	}
	ob, err := NewOrderbook(elements, 10, DefaultDustThreshold)
	if err != nil {
		t.Fatalf("NewOrderbook: %v", err)
	}
	if len(ob.Orders()) != 0 {
		t.Errorf("expected a zero-balance owner's order to be dropped, got %d live orders", len(ob.Orders()))
	}
}

func TestNewOrderbook_InconsistentBalance(t *testing.T) {
	owner := addr(1)
	elements := []Element{
		{
			Owner: owner, Balance: big.NewInt(1000),
			Pair: TokenPair{Sell: 1, Buy: 2}, Valid: Validity{From: 0, To: 100},
			Price: priceOf(1, 1), RemainingSellAmount: big.NewInt(500), OrderID: 1,
		},
		{
			Owner: owner, Balance: big.NewInt(2000), // disagrees with the first record
			Pair: TokenPair{Sell: 1, Buy: 3}, Valid: Validity{From: 0, To: 100},
			Price: priceOf(1, 1), RemainingSellAmount: big.NewInt(500), OrderID: 2,
		},
	}
	_, err := NewOrderbook(elements, 10, DefaultDustThreshold)
	if err == nil {
		t.Fatal("expected InconsistentBalanceError")
	}
	if _, ok := err.(*InconsistentBalanceError); !ok {
		t.Errorf("unexpected error type: %T", err)
	}
}

func TestOrderbook_ApplyFill_SharesBalanceAcrossOrders(t *testing.T) {
	owner := addr(1)
	elements := []Element{
		{
			Owner: owner, Balance: big.NewInt(1000),
			Pair: TokenPair{Sell: 1, Buy: 2}, Valid: Validity{From: 0, To: 100},
			Price: priceOf(1, 1), RemainingSellAmount: big.NewInt(1000), OrderID: 1,
		},
		{
			Owner: owner, Balance: big.NewInt(1000),
			Pair: TokenPair{Sell: 1, Buy: 3}, Valid: Validity{From: 0, To: 100},
			Price: priceOf(1, 1), RemainingSellAmount: big.NewInt(1000), OrderID: 2,
		},
	}
	ob, err := NewOrderbook(elements, 10, DefaultDustThreshold)
	if err != nil {
		t.Fatalf("NewOrderbook: %v", err)
	}
	refs := ob.Orders()
	if len(refs) != 2 {
		t.Fatalf("expected 2 live orders, got %d", len(refs))
	}

	touched, err := ob.ApplyFill(refs[0], big.NewInt(900))
	if err != nil {
		t.Fatalf("ApplyFill: %v", err)
	}
	if len(touched) != 1 || touched[0] != refs[1] {
		t.Fatalf("expected the sibling order sharing the sell-token to be touched, got %v", touched)
	}

	// Balance is now 100; the untouched sibling's own remaining-sell is
	// still 1000, but its effective amount must reflect the shared balance.
	remaining := ob.EffectiveAmount(refs[1])
	if remaining.Cmp(big.NewInt(100)) != 0 {
		t.Errorf("expected sibling's effective amount to be capped by the shared balance, got %v", remaining)
	}
}

func TestOrderbook_ApplyFill_InsufficientCapacity(t *testing.T) {
	elements := []Element{
		{
			Owner: addr(1), Balance: big.NewInt(1000),
			Pair: TokenPair{Sell: 1, Buy: 2}, Valid: Validity{From: 0, To: 100},
			Price: priceOf(1, 1), RemainingSellAmount: big.NewInt(500), OrderID: 1,
		},
	}
	ob, err := NewOrderbook(elements, 10, DefaultDustThreshold)
	if err != nil {
		t.Fatalf("NewOrderbook: %v", err)
	}
	refs := ob.Orders()

	_, err = ob.ApplyFill(refs[0], big.NewInt(600))
	if err == nil {
		t.Fatal("expected InsufficientCapacity error")
	}
	fillErr, ok := err.(*FillError)
	if !ok || fillErr.Code != "InsufficientCapacity" {
		t.Errorf("unexpected error: %v", err)
	}

	// The order's own remaining-sell must be untouched after a rejected fill.
	if ob.Order(refs[0]).RemainingSellAmount.Cmp(big.NewInt(500)) != 0 {
		t.Error("expected a failed fill to leave remaining-sell unchanged")
	}
}

func TestOrderbook_Clone_IsIndependent(t *testing.T) {
	elements := []Element{
		{
			Owner: addr(1), Balance: big.NewInt(1000),
			Pair: TokenPair{Sell: 1, Buy: 2}, Valid: Validity{From: 0, To: 100},
			Price: priceOf(1, 1), RemainingSellAmount: big.NewInt(1000), OrderID: 1,
		},
	}
	ob, err := NewOrderbook(elements, 10, DefaultDustThreshold)
	if err != nil {
		t.Fatalf("NewOrderbook: %v", err)
	}
	clone := ob.Clone()

	refs := ob.Orders()
	if _, err := clone.ApplyFill(refs[0], big.NewInt(500)); err != nil {
		t.Fatalf("ApplyFill on clone: %v", err)
	}

	if ob.Order(refs[0]).RemainingSellAmount.Cmp(big.NewInt(1000)) != 0 {
		t.Error("expected the original orderbook to be unaffected by a fill on its clone")
	}
	if clone.Order(refs[0]).RemainingSellAmount.Cmp(big.NewInt(500)) != 0 {
		t.Error("expected the clone to reflect its own fill")
	}
}

func TestOrderbook_FilterRefs(t *testing.T) {
	elements := []Element{
		{
			Owner: addr(1), Balance: big.NewInt(1000),
			Pair: TokenPair{Sell: 1, Buy: 2}, Valid: Validity{From: 0, To: 100},
			Price: priceOf(1, 1), RemainingSellAmount: big.NewInt(1000), OrderID: 1,
		},
		{
			Owner: addr(2), Balance: big.NewInt(1000),
			Pair: TokenPair{Sell: 1, Buy: 3}, Valid: Validity{From: 0, To: 100},
			Price: priceOf(1, 1), RemainingSellAmount: big.NewInt(1000), OrderID: 2,
		},
	}
	ob, err := NewOrderbook(elements, 10, DefaultDustThreshold)
	if err != nil {
		t.Fatalf("NewOrderbook: %v", err)
	}

	filtered := ob.FilterRefs(func(ref OrderRef) bool {
		return ob.Order(ref).Pair.Buy != 3
	})
	if len(filtered.Orders()) != 1 {
		t.Fatalf("expected 1 order to survive the filter, got %d", len(filtered.Orders()))
	}
	if filtered.Order(filtered.Orders()[0]).Pair.Buy == 3 {
		t.Error("expected the filtered-out pair to be absent")
	}
}
