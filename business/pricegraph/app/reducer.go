package app

import (
	"github.com/pricegraph/pricegraph/business/pricegraph/domain"
	"github.com/pricegraph/pricegraph/business/pricegraph/graph"
)

// maxReduceIterationsPerOrder bounds reduce_overlapping_orders: every iteration
// fully drains the bottleneck edge of some cycle to dust, so the number
// of iterations is bounded by the number of orders. A loop that exceeds
// this is an invariant violation, not a slow orderbook.
const maxReduceIterationsPerOrder = 1

// ReduceOverlappingOrders repeatedly detects a negative-weight cycle
// (via Bellman-Ford parent-tree contraction, over the whole graph rather
// than from a single source) and fully fills it, until the orderbook
// reaches ring-free form (spec.md §4.7, §4.8): no simple cycle's product
// of p_eff exceeds 1. ob is mutated in place; callers that need to keep
// the pre-reduce orderbook pass a clone.
//
// This is normally run exactly once, right after a snapshot is decoded,
// to produce the canonical reduced orderbook every query clones from
// (spec.md §5).
func ReduceOverlappingOrders(ob *domain.Orderbook) error {
	g := graph.Build(ob)
	limit := len(ob.Orders())*maxReduceIterationsPerOrder + 1

	for i := 0; i < limit; i++ {
		result := graph.BellmanFordAllSources(g)
		if result.Cycle == nil {
			return nil
		}
		cyclePath := result.Cycle.AsPath()
		filled, err := fillAlongPath(ob, &cyclePath, nil)
		if err != nil {
			return err
		}
		if filled.Sign() <= 0 {
			panic("pricegraph: reduce found a negative cycle it could not drain")
		}
	}
	panic("pricegraph: reduce_overlapping_orders did not converge within the iteration bound")
}

// IsOverlapping is the cheap diagnostic predicate for "does this
// orderbook still contain a ring": it runs the same all-sources
// Bellman-Ford detection reduce uses but stops at the first witness
// instead of draining it.
func IsOverlapping(ob *domain.Orderbook) bool {
	g := graph.Build(ob)
	return graph.BellmanFordAllSources(g).Cycle != nil
}

// RestrictToMarket projects ob onto the subgraph of orders that can
// appear on some path between base and quote (in either direction) of
// at most maxHops+1 edges - the working set transitive_orderbook needs
// for both the ask leg (base->quote) and the bid leg (quote->base)
// without re-scanning the full orderbook on every path pull (spec.md
// §4.5 item 1, §4.8's "project onto a single market").
func RestrictToMarket(ob *domain.Orderbook, base, quote domain.TokenID, maxHops int) *domain.Orderbook {
	budget := maxHops + 1
	if budget < 1 {
		budget = 1
	}

	fwdFromBase := hopDistances(ob, base, forward)
	bwdToQuote := hopDistances(ob, quote, backward)
	fwdFromQuote := hopDistances(ob, quote, forward)
	bwdToBase := hopDistances(ob, base, backward)

	onSomePath := func(sell, buy domain.TokenID) bool {
		if d1, ok1 := fwdFromBase[sell]; ok1 {
			if d2, ok2 := bwdToQuote[buy]; ok2 && d1+1+d2 <= budget {
				return true
			}
		}
		if d1, ok1 := fwdFromQuote[sell]; ok1 {
			if d2, ok2 := bwdToBase[buy]; ok2 && d1+1+d2 <= budget {
				return true
			}
		}
		return false
	}

	keep := make(map[domain.OrderRef]bool)
	for _, ref := range ob.Orders() {
		o := ob.Order(ref)
		if onSomePath(o.Pair.Sell, o.Pair.Buy) {
			keep[ref] = true
		}
	}

	return ob.FilterRefs(func(ref domain.OrderRef) bool { return keep[ref] })
}

type direction int

const (
	forward direction = iota
	backward
)

// hopDistances runs an unweighted BFS over ob's order pairs from source,
// following sell->buy edges in dir, and returns the minimum hop count to
// every node it reaches.
func hopDistances(ob *domain.Orderbook, source domain.TokenID, dir direction) map[domain.TokenID]int {
	dist := map[domain.TokenID]int{source: 0}
	frontier := []domain.TokenID{source}

	adjacency := buildAdjacency(ob, dir)

	for len(frontier) > 0 {
		var next []domain.TokenID
		for _, u := range frontier {
			for _, v := range adjacency[u] {
				if _, seen := dist[v]; seen {
					continue
				}
				dist[v] = dist[u] + 1
				next = append(next, v)
			}
		}
		frontier = next
	}
	return dist
}

func buildAdjacency(ob *domain.Orderbook, dir direction) map[domain.TokenID][]domain.TokenID {
	adjacency := make(map[domain.TokenID][]domain.TokenID)
	for _, ref := range ob.Orders() {
		o := ob.Order(ref)
		from, to := o.Pair.Sell, o.Pair.Buy
		if dir == backward {
			from, to = to, from
		}
		adjacency[from] = append(adjacency[from], to)
	}
	return adjacency
}
