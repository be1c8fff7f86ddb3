package app

import (
	"math/big"
	"testing"

	"github.com/pricegraph/pricegraph/business/pricegraph/domain"
	"github.com/pricegraph/pricegraph/business/pricegraph/graph"
)

func buildOrderbook(t *testing.T, elements []domain.Element) *domain.Orderbook {
	t.Helper()
	ob, err := domain.NewOrderbook(elements, 10, domain.DefaultDustThreshold)
	if err != nil {
		t.Fatalf("NewOrderbook: %v", err)
	}
	return ob
}

func TestIsOverlapping_DetectsRing(t *testing.T) {
	elements := []domain.Element{
		// Both legs price >1 before fee, so p_eff1 * p_eff2 > 1: a ring.
		elem(addr(1), 1, 2, 3, 1, 1000, 1000, 1),
		elem(addr(2), 2, 1, 3, 1, 1000, 1000, 1),
	}
	ob := buildOrderbook(t, elements)
	if !IsOverlapping(ob) {
		t.Fatal("expected IsOverlapping to detect the ring")
	}
}

func TestIsOverlapping_FalseOnRingFreeBook(t *testing.T) {
	elements := []domain.Element{
		elem(addr(1), 1, 2, 1, 2, 1000, 1000, 1), // p_eff < 1, no profitable reverse exists
	}
	ob := buildOrderbook(t, elements)
	if IsOverlapping(ob) {
		t.Fatal("expected IsOverlapping to be false on a ring-free book")
	}
}

func TestReduceOverlappingOrders_DrainsRingToDust(t *testing.T) {
	elements := []domain.Element{
		elem(addr(1), 1, 2, 3, 1, 1000, 1000, 1),
		elem(addr(2), 2, 1, 3, 1, 1000, 1000, 2),
	}
	ob := buildOrderbook(t, elements)

	if err := ReduceOverlappingOrders(ob); err != nil {
		t.Fatalf("ReduceOverlappingOrders: %v", err)
	}
	if IsOverlapping(ob) {
		t.Error("expected the orderbook to be ring-free after reduction")
	}
}

func TestReduceOverlappingOrders_NoOpOnRingFreeBook(t *testing.T) {
	elements := []domain.Element{
		elem(addr(1), 1, 2, 1, 2, 1000, 1000, 1),
	}
	ob := buildOrderbook(t, elements)

	before := ob.EffectiveAmount(ob.Orders()[0])
	if err := ReduceOverlappingOrders(ob); err != nil {
		t.Fatalf("ReduceOverlappingOrders: %v", err)
	}
	after := ob.EffectiveAmount(ob.Orders()[0])
	if before.Cmp(after) != 0 {
		t.Errorf("expected reduce to leave a ring-free book untouched, before=%v after=%v", before, after)
	}
}

func TestRestrictToMarket_DropsUnreachableOrders(t *testing.T) {
	elements := []domain.Element{
		elem(addr(1), 1, 2, 1, 1, 1000, 1000, 1), // on the 1<->2 market
		elem(addr(2), 5, 6, 1, 1, 1000, 1000, 2), // unrelated pair, far away
	}
	ob := buildOrderbook(t, elements)

	restricted := RestrictToMarket(ob, 1, 2, 3)
	refs := restricted.Orders()
	if len(refs) != 1 {
		t.Fatalf("expected 1 order to survive the market restriction, got %d", len(refs))
	}
	if restricted.Order(refs[0]).Pair.Sell != 1 {
		t.Errorf("expected the surviving order to be on the 1<->2 market, got %+v", restricted.Order(refs[0]))
	}
}

func TestRestrictToMarket_KeepsIntermediateHops(t *testing.T) {
	elements := []domain.Element{
		elem(addr(1), 1, 3, 1, 1, 1000, 1000, 1), // base -> intermediate
		elem(addr(1), 3, 2, 1, 1, 1000, 1000, 2), // intermediate -> quote
		elem(addr(2), 9, 8, 1, 1, 1000, 1000, 3), // unrelated
	}
	ob := buildOrderbook(t, elements)

	restricted := RestrictToMarket(ob, 1, 2, 2)
	if len(restricted.Orders()) != 2 {
		t.Fatalf("expected the two-hop bridge to survive, got %d orders", len(restricted.Orders()))
	}
}

func TestFillAlongPath_AppliesSharedBalanceCapacity(t *testing.T) {
	owner := addr(1)
	elements := []domain.Element{
		elem(owner, 1, 2, 1, 1, 1000, 500, 1), // balance caps this order at 500
	}
	ob := buildOrderbook(t, elements)
	g := graph.Build(ob)

	result := graph.BellmanFord(g, 1, 0)
	p, ok := result.PathTo(2)
	if !ok {
		t.Fatal("expected a path from 1 to 2")
	}

	filled, err := fillAlongPath(ob, p, nil)
	if err != nil {
		t.Fatalf("fillAlongPath: %v", err)
	}
	if filled.Cmp(big.NewInt(500)) != 0 {
		t.Errorf("expected the fill to be capped by the owner's balance (500), got %v", filled)
	}
}
