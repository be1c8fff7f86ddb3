// Package graph implements the token-indexed price graph (C4) and the
// bounded Bellman-Ford path search over it (C5). It depends only on
// domain: no I/O, no logging - the same "pure with respect to its
// inputs" posture spec.md §5 requires of the whole core.
package graph

import (
	"sort"

	"github.com/pricegraph/pricegraph/business/pricegraph/domain"
)

// Edge is one directed price-graph edge: a reference back to the order
// that produced it, plus the weight that order contributes. The graph
// does not own orders - Ref is resolved against the Orderbook that built
// this Graph (spec.md §4.4).
type Edge struct {
	Ref    domain.OrderRef
	From   domain.TokenID
	To     domain.TokenID
	Weight domain.Weight
}

// Graph is the price graph: an adjacency structure keyed by sell-token,
// with edges to each reachable buy-token sorted ascending by weight (equal
// weights by lower order id) so the cheapest currently-non-dust order for
// a pair can be found by a short linear scan.
type Graph struct {
	ob        *domain.Orderbook
	adjacency map[domain.TokenID]map[domain.TokenID][]domain.OrderRef
}

// Build projects ob's live orders into a Graph. The fee token is always
// present as a node even with no incident edges (spec.md §3).
func Build(ob *domain.Orderbook) *Graph {
	g := &Graph{
		ob:        ob,
		adjacency: make(map[domain.TokenID]map[domain.TokenID][]domain.OrderRef),
	}
	g.ensureNode(domain.FeeToken)

	for _, ref := range ob.Orders() {
		o := ob.Order(ref)
		g.ensureNode(o.Pair.Sell)
		g.ensureNode(o.Pair.Buy)
		byBuy := g.adjacency[o.Pair.Sell]
		byBuy[o.Pair.Buy] = append(byBuy[o.Pair.Buy], ref)
	}

	for _, byBuy := range g.adjacency {
		for buy, refs := range byBuy {
			sort.Slice(refs, func(i, j int) bool {
				oi, oj := ob.Order(refs[i]), ob.Order(refs[j])
				if oi.Weight != oj.Weight {
					return oi.Weight < oj.Weight
				}
				return oi.ID < oj.ID
			})
			byBuy[buy] = refs
		}
	}

	return g
}

func (g *Graph) ensureNode(t domain.TokenID) {
	if _, ok := g.adjacency[t]; !ok {
		g.adjacency[t] = make(map[domain.TokenID][]domain.OrderRef)
	}
}

// Nodes returns every token participating in the graph, in no particular
// order.
func (g *Graph) Nodes() []domain.TokenID {
	nodes := make([]domain.TokenID, 0, len(g.adjacency))
	for t := range g.adjacency {
		nodes = append(nodes, t)
	}
	return nodes
}

// HasNode reports whether token appears in the graph.
func (g *Graph) HasNode(token domain.TokenID) bool {
	_, ok := g.adjacency[token]
	return ok
}

// OutgoingEdges returns, for each buy-token reachable from token, the
// single cheapest currently-non-dust edge - the live projection of
// "touched edges" re-sorting described in spec.md §4.4. Orders driven to
// dust by a fill elsewhere are skipped lazily rather than eagerly pruned.
func (g *Graph) OutgoingEdges(token domain.TokenID) []Edge {
	byBuy, ok := g.adjacency[token]
	if !ok {
		return nil
	}
	out := make([]Edge, 0, len(byBuy))
	for buy, refs := range byBuy {
		for _, ref := range refs {
			if g.ob.IsDust(ref) {
				continue
			}
			out = append(out, Edge{
				Ref:    ref,
				From:   token,
				To:     buy,
				Weight: g.ob.Order(ref).Weight,
			})
			break
		}
	}
	return out
}

// CheapestEdge returns the cheapest currently-non-dust edge from sell to
// buy, if any.
func (g *Graph) CheapestEdge(sell, buy domain.TokenID) (Edge, bool) {
	byBuy, ok := g.adjacency[sell]
	if !ok {
		return Edge{}, false
	}
	for _, ref := range byBuy[buy] {
		if !g.ob.IsDust(ref) {
			return Edge{Ref: ref, From: sell, To: buy, Weight: g.ob.Order(ref).Weight}, true
		}
	}
	return Edge{}, false
}

// Orderbook returns the orderbook this graph was built from.
func (g *Graph) Orderbook() *domain.Orderbook {
	return g.ob
}
