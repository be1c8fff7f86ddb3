package graph

import "github.com/pricegraph/pricegraph/business/pricegraph/domain"

// Path is a simple source-to-sink walk through the price graph.
type Path struct {
	Nodes []domain.TokenID
	Edges []Edge
}

// TotalWeight sums the path's edge weights - comparisons between paths
// must happen in this summed-weight space, never in product space
// (spec.md §9).
func (p *Path) TotalWeight() domain.Weight {
	var total domain.Weight
	for _, e := range p.Edges {
		total += e.Weight
	}
	return total
}

// MaxOrderID returns the highest order-id among the path's edges, the
// second tie-break key per spec.md §4.6.
func (p *Path) MaxOrderID(ob *domain.Orderbook) domain.OrderID {
	var max domain.OrderID
	for _, e := range p.Edges {
		if id := ob.Order(e.Ref).ID; id > max {
			max = id
		}
	}
	return max
}

// NegativeCycle is a simple cycle whose summed weight is negative - a
// "ring": a product of effective prices greater than 1, i.e. an
// arbitrage opportunity that reduce must pre-drain (spec.md §4.7, §4.8).
type NegativeCycle struct {
	Nodes []domain.TokenID
	Edges []Edge
}

// WithStartingNode rotates the cycle so it begins (and ends) at node.
// If node is not on the cycle, or already starts it, the cycle is
// returned unchanged.
func (c NegativeCycle) WithStartingNode(node domain.TokenID) NegativeCycle {
	idx := -1
	for i, n := range c.Nodes {
		if n == node {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return c
	}
	rotatedNodes := append(append([]domain.TokenID{}, c.Nodes[idx:]...), c.Nodes[:idx]...)
	rotatedEdges := append(append([]Edge{}, c.Edges[idx:]...), c.Edges[:idx]...)
	return NegativeCycle{Nodes: rotatedNodes, Edges: rotatedEdges}
}

// AsPath treats the cycle as a closed path starting and ending at its
// first node, for reuse with the fill-loop's path-filling machinery.
func (c NegativeCycle) AsPath() Path {
	nodes := append(append([]domain.TokenID{}, c.Nodes...), c.Nodes[0])
	return Path{Nodes: nodes, Edges: append([]Edge{}, c.Edges...)}
}
