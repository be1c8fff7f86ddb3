package graph

import (
	"math"
	"math/big"
	"testing"

	"github.com/pricegraph/pricegraph/business/pricegraph/domain"
)

// mkOrder builds an Order directly (bypassing NewOrder/decoding) for tests
// that only care about graph/path-search behavior, not price derivation.
func mkOrder(id domain.OrderID, owner domain.UserID, sell, buy domain.TokenID, weight domain.Weight, remaining int64) domain.Element {
	// Encode weight back into a price fraction isn't needed here: orderbook
	// construction derives weight itself, so tests build via a fixed
	// effective price chosen to land on a convenient weight instead.
	return domain.Element{
		Owner:               owner,
		Balance:             big.NewInt(remaining),
		Pair:                domain.TokenPair{Sell: sell, Buy: buy},
		Valid:               domain.Validity{From: 0, To: 1000},
		Price:               weightToPrice(weight),
		RemainingSellAmount: big.NewInt(remaining),
		OrderID:             id,
	}
}

// weightToPrice picks a numerator/denominator pair whose fee-adjusted
// effective price reproduces weight closely enough for deterministic
// ordering in tests (exact equality isn't needed, only relative order).
func weightToPrice(weight domain.Weight) domain.PriceFraction {
	pEff := domain.EffectivePriceFromWeight(weight)
	// p = pEff / phi; represent as a ratio scaled by 1e9 for precision.
	p := pEff * float64(domain.FeeDenominator) / float64(domain.FeeNumerator)
	const scale = 1_000_000_000
	num := int64(p * scale)
	if num <= 0 {
		num = 1
	}
	return domain.PriceFraction{
		Numerator:   big.NewInt(num),
		Denominator: big.NewInt(scale),
	}
}

func addr(b byte) domain.UserID {
	var a domain.UserID
	a[19] = b
	return a
}

func buildGraph(t *testing.T, elements []domain.Element) *Graph {
	t.Helper()
	ob, err := domain.NewOrderbook(elements, 0, domain.DefaultDustThreshold)
	if err != nil {
		t.Fatalf("NewOrderbook: %v", err)
	}
	return Build(ob)
}

func TestBellmanFord_DirectEdge(t *testing.T) {
	elements := []domain.Element{
		mkOrder(1, addr(1), 1, 2, -1, 1000),
	}
	g := buildGraph(t, elements)

	result := BellmanFord(g, 1, 0)
	if !result.Reached(2) {
		t.Fatal("expected token 2 to be reached from token 1")
	}
	path, ok := result.PathTo(2)
	if !ok || len(path.Nodes) != 2 {
		t.Fatalf("unexpected path: %+v ok=%v", path, ok)
	}
}

func TestBellmanFord_HopBoundLimitsReach(t *testing.T) {
	elements := []domain.Element{
		mkOrder(1, addr(1), 1, 2, -1, 1000),
		mkOrder(2, addr(1), 2, 3, -1, 1000),
	}
	g := buildGraph(t, elements)

	// With a hop bound of 1, token 3 (two hops away) must not be reached.
	result := BellmanFord(g, 1, 1)
	if result.Reached(3) {
		t.Fatal("expected token 3 unreachable within a 1-hop bound")
	}
	if !result.Reached(2) {
		t.Fatal("expected token 2 reachable within a 1-hop bound")
	}

	// With no bound (defaults to len(nodes)-1), it should be reached.
	result = BellmanFord(g, 1, 0)
	if !result.Reached(3) {
		t.Fatal("expected token 3 reachable with the default hop bound")
	}
}

func TestBellmanFord_PrefersCheaperPath(t *testing.T) {
	elements := []domain.Element{
		// Direct but expensive edge 1->2.
		mkOrder(1, addr(1), 1, 2, 5, 1000),
		// Two-hop but much cheaper combined path 1->3->2.
		mkOrder(2, addr(1), 1, 3, -10, 1000),
		mkOrder(3, addr(1), 3, 2, -10, 1000),
	}
	g := buildGraph(t, elements)

	result := BellmanFord(g, 1, 0)
	path, ok := result.PathTo(2)
	if !ok {
		t.Fatal("expected token 2 reachable")
	}
	if len(path.Nodes) != 3 {
		t.Fatalf("expected the cheaper two-hop path to win, got nodes %v", path.Nodes)
	}
}

func TestBellmanFord_TieBreakByFewerHops(t *testing.T) {
	elements := []domain.Element{
		// Both paths have identical total weight 0: a direct and a detour.
		mkOrder(1, addr(1), 1, 2, 0, 1000),
		mkOrder(2, addr(1), 1, 3, 0, 1000),
		mkOrder(3, addr(1), 3, 2, 0, 1000),
	}
	g := buildGraph(t, elements)

	result := BellmanFord(g, 1, 0)
	path, ok := result.PathTo(2)
	if !ok {
		t.Fatal("expected token 2 reachable")
	}
	if len(path.Nodes) != 2 {
		t.Fatalf("expected the direct single-hop path to win the tie, got nodes %v", path.Nodes)
	}
}

func TestBellmanFord_TieBreakByMaxOrderID(t *testing.T) {
	elements := []domain.Element{
		// Two direct edges, same weight, different order ids; the lower
		// max order-id along the path must win the tie.
		mkOrder(5, addr(1), 1, 2, -1, 1000),
		mkOrder(2, addr(2), 1, 2, -1, 1000),
	}
	g := buildGraph(t, elements)

	result := BellmanFord(g, 1, 0)
	path, ok := result.PathTo(2)
	if !ok || len(path.Edges) != 1 {
		t.Fatalf("unexpected path: %+v ok=%v", path, ok)
	}
	if id := g.Orderbook().Order(path.Edges[0].Ref).ID; id != 2 {
		t.Fatalf("expected the order with id=2 to win the tie, got id=%d", id)
	}
}

func TestBellmanFordAllSources_DetectsNegativeCycle(t *testing.T) {
	elements := []domain.Element{
		mkOrder(1, addr(1), 1, 2, -1, 1000),
		mkOrder(2, addr(1), 2, 1, -1, 1000),
	}
	g := buildGraph(t, elements)

	result := BellmanFordAllSources(g)
	if result.Cycle == nil {
		t.Fatal("expected a negative cycle to be detected")
	}
	if len(result.Cycle.Nodes) == 0 {
		t.Fatal("expected the detected cycle to carry its nodes")
	}
}

func TestBellmanFordAllSources_NoCycleOnRingFreeGraph(t *testing.T) {
	elements := []domain.Element{
		mkOrder(1, addr(1), 1, 2, 1, 1000),
		mkOrder(2, addr(1), 2, 3, 1, 1000),
	}
	g := buildGraph(t, elements)

	result := BellmanFordAllSources(g)
	if result.Cycle != nil {
		t.Fatalf("expected no cycle on a ring-free graph, got %+v", result.Cycle)
	}
}

func TestNegativeCycle_WithStartingNodeAndAsPath(t *testing.T) {
	elements := []domain.Element{
		mkOrder(1, addr(1), 1, 2, -1, 1000),
		mkOrder(2, addr(1), 2, 3, -1, 1000),
		mkOrder(3, addr(1), 3, 1, -1, 1000),
	}
	g := buildGraph(t, elements)

	result := BellmanFordAllSources(g)
	if result.Cycle == nil {
		t.Fatal("expected a negative cycle")
	}

	rotated := result.Cycle.WithStartingNode(2)
	if rotated.Nodes[0] != 2 {
		t.Fatalf("expected rotation to start at token 2, got %v", rotated.Nodes)
	}

	path := rotated.AsPath()
	if path.Nodes[0] != path.Nodes[len(path.Nodes)-1] {
		t.Fatalf("expected AsPath to close the loop, got %v", path.Nodes)
	}
	if len(path.Edges) != len(rotated.Edges) {
		t.Fatalf("expected AsPath to preserve edge count, got %d want %d", len(path.Edges), len(rotated.Edges))
	}
}

func TestPath_TotalWeightAndMaxOrderID(t *testing.T) {
	elements := []domain.Element{
		mkOrder(7, addr(1), 1, 2, -2, 1000),
		mkOrder(3, addr(1), 2, 3, -3, 1000),
	}
	g := buildGraph(t, elements)

	result := BellmanFord(g, 1, 0)
	path, ok := result.PathTo(3)
	if !ok {
		t.Fatal("expected token 3 reachable")
	}
	// weightToPrice only approximates each weight, so compare with a tolerance.
	if got := path.TotalWeight(); math.Abs(float64(got)+5) > 1e-6 {
		t.Fatalf("expected total weight -5, got %v", got)
	}
	if got := path.MaxOrderID(g.Orderbook()); got != 7 {
		t.Fatalf("expected max order id 7, got %d", got)
	}
}
