package graph

import (
	"sort"

	"github.com/pricegraph/pricegraph/business/pricegraph/domain"
)

// label is the best known way to reach a node during a Bellman-Ford run:
// its summed weight, hop count, and the highest order-id used to reach
// it - the three-way tie-break key spec.md §4.6 requires ("cheapest is
// minimum sum-of-weights; tie-break by shortest hop count, then lowest
// max order-id along the path").
type label struct {
	dist  domain.Weight
	hops  int
	maxID domain.OrderID
	known bool
	pred  *Edge
}

func (l label) betterThan(other label) bool {
	if !other.known {
		return true
	}
	if l.dist != other.dist {
		return l.dist < other.dist
	}
	if l.hops != other.hops {
		return l.hops < other.hops
	}
	return l.maxID < other.maxID
}

// Result is the outcome of a bounded Bellman-Ford search from a single
// source: the best-known label for every node it could reach within the
// hop bound, and - if the graph turned out not to be ring-free - the
// first negative cycle discovered reachable from source.
type Result struct {
	source domain.TokenID
	labels map[domain.TokenID]label
	Cycle  *NegativeCycle
}

// BellmanFord runs a hop-bounded Bellman-Ford relaxation from source.
// hopBound <= 0 defaults to len(g.Nodes())-1, the spec's "number of
// tokens minus one" default (spec.md §4.6). Each hop advances the
// relaxation frontier by exactly one edge, using only labels settled
// before that hop began, so the hop bound is exact. The search assumes g
// is ring-free (post-reduce); if a negative cycle reachable from source
// is nonetheless found, it is reported via Result.Cycle rather than
// silently miscounted - reduce is expected to have eliminated this case
// before any user-facing query runs (spec.md §4.7).
func BellmanFord(g *Graph, source domain.TokenID, hopBound int) *Result {
	allNodes := sortedNodes(g.Nodes())
	if hopBound <= 0 || hopBound > len(allNodes)-1 {
		hopBound = len(allNodes) - 1
	}
	if hopBound < 0 {
		hopBound = 0
	}

	labels := map[domain.TokenID]label{
		source: {dist: 0, hops: 0, maxID: 0, known: true},
	}

	for hop := 0; hop < hopBound; hop++ {
		if !relaxPass(g, labels, frontierOf(labels, allNodes)) {
			break
		}
	}

	result := &Result{source: source, labels: labels}
	probe := snapshot(labels, allNodes)
	if target, ok := relaxPassDetect(g, probe, frontierOf(labels, allNodes)); ok {
		result.Cycle = findCycle(probe, target)
	}
	return result
}

// BellmanFordAllSources seeds every node in g at distance zero (the
// standard virtual-super-source construction) and relaxes until
// convergence or a negative cycle is found. It answers "does any
// negative cycle exist anywhere in g", independent of a query source -
// exactly what reduce_overlapping_orders needs to drain every ring, not
// just ones reachable from a particular token.
func BellmanFordAllSources(g *Graph) *Result {
	allNodes := sortedNodes(g.Nodes())
	labels := make(map[domain.TokenID]label, len(allNodes))
	for _, n := range allNodes {
		labels[n] = label{dist: 0, hops: 0, maxID: 0, known: true}
	}

	bound := len(allNodes)
	for hop := 0; hop < bound; hop++ {
		if !relaxPass(g, labels, frontierOf(labels, allNodes)) {
			break
		}
	}

	result := &Result{labels: labels}
	if target, ok := relaxPassDetect(g, labels, frontierOf(labels, allNodes)); ok {
		result.Cycle = findCycle(labels, target)
	}
	return result
}

// frontierOf returns, in deterministic order, every node with a known
// label at the moment it is called.
func frontierOf(labels map[domain.TokenID]label, allNodes []domain.TokenID) []domain.TokenID {
	frontier := make([]domain.TokenID, 0, len(labels))
	for _, n := range allNodes {
		if labels[n].known {
			frontier = append(frontier, n)
		}
	}
	return frontier
}

// relaxPass relaxes every edge out of frontier's nodes using the labels
// as they stood when frontier was captured, writing results into labels.
// Returns whether anything changed.
func relaxPass(g *Graph, labels map[domain.TokenID]label, frontier []domain.TokenID) bool {
	changed := false
	base := snapshot(labels, frontier)
	for _, u := range frontier {
		lu := base[u]
		for _, e := range g.OutgoingEdges(u) {
			edge := e
			candidate := label{
				dist:  lu.dist + e.Weight,
				hops:  lu.hops + 1,
				maxID: maxOrderID(lu.maxID, g.Orderbook().Order(e.Ref).ID),
				known: true,
				pred:  &edge,
			}
			if candidate.betterThan(labels[e.To]) {
				labels[e.To] = candidate
				changed = true
			}
		}
	}
	return changed
}

// relaxPassDetect is one more relaxation pass, used only to look for a
// negative cycle: it returns the first target that still improves after
// the bounded passes. BellmanFord runs it on a copy of the labels so the
// extra hop never leaks into the search result; an improving target is
// only a candidate, and findCycle returns nil when its predecessor chain
// ends instead of closing a loop.
func relaxPassDetect(g *Graph, labels map[domain.TokenID]label, frontier []domain.TokenID) (domain.TokenID, bool) {
	base := snapshot(labels, frontier)
	for _, u := range frontier {
		lu := base[u]
		for _, e := range g.OutgoingEdges(u) {
			edge := e
			candidate := label{
				dist:  lu.dist + e.Weight,
				hops:  lu.hops + 1,
				maxID: maxOrderID(lu.maxID, g.Orderbook().Order(e.Ref).ID),
				known: true,
				pred:  &edge,
			}
			if candidate.betterThan(labels[e.To]) {
				labels[e.To] = candidate
				return e.To, true
			}
		}
	}
	var zero domain.TokenID
	return zero, false
}

func snapshot(labels map[domain.TokenID]label, nodes []domain.TokenID) map[domain.TokenID]label {
	out := make(map[domain.TokenID]label, len(nodes))
	for _, n := range nodes {
		out[n] = labels[n]
	}
	return out
}

func sortedNodes(nodes []domain.TokenID) []domain.TokenID {
	out := append([]domain.TokenID{}, nodes...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func maxOrderID(a, b domain.OrderID) domain.OrderID {
	if a > b {
		return a
	}
	return b
}

// findCycle walks the predecessor chain backward from a node known to be
// reachable from a negative cycle far enough to guarantee landing on the
// cycle itself, then walks the cycle forward to recover its nodes and
// edges (mirrors the original engine's predecessor-chain cycle-finding
// approach).
func findCycle(labels map[domain.TokenID]label, start domain.TokenID) *NegativeCycle {
	node := start
	for i := 0; i <= len(labels); i++ {
		l := labels[node]
		if l.pred == nil {
			return nil
		}
		node = l.pred.From
	}

	cycleStart := node
	var nodes []domain.TokenID
	var edges []Edge
	cur := cycleStart
	for {
		l := labels[cur]
		if l.pred == nil {
			return nil
		}
		nodes = append(nodes, cur)
		edges = append(edges, *l.pred)
		cur = l.pred.From
		if cur == cycleStart {
			break
		}
	}

	reverseNodes(nodes)
	reverseEdges(edges)
	return &NegativeCycle{Nodes: nodes, Edges: edges}
}

func reverseNodes(s []domain.TokenID) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseEdges(s []Edge) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// PathTo reconstructs the path from the search's source to sink, if sink
// was reached within the hop bound.
func (r *Result) PathTo(sink domain.TokenID) (*Path, bool) {
	if sink == r.source {
		return &Path{Nodes: []domain.TokenID{sink}}, true
	}
	l, ok := r.labels[sink]
	if !ok || !l.known || l.pred == nil {
		return nil, false
	}

	var nodesRev []domain.TokenID
	var edgesRev []Edge
	cur := sink
	for cur != r.source {
		curLabel, ok := r.labels[cur]
		if !ok || curLabel.pred == nil {
			return nil, false
		}
		edgesRev = append(edgesRev, *curLabel.pred)
		nodesRev = append(nodesRev, cur)
		cur = curLabel.pred.From
	}
	nodesRev = append(nodesRev, r.source)

	nodes := make([]domain.TokenID, len(nodesRev))
	for i, n := range nodesRev {
		nodes[len(nodes)-1-i] = n
	}
	edges := make([]Edge, len(edgesRev))
	for i, e := range edgesRev {
		edges[len(edges)-1-i] = e
	}
	return &Path{Nodes: nodes, Edges: edges}, true
}

// Reached reports whether sink was reached within the hop bound.
func (r *Result) Reached(sink domain.TokenID) bool {
	l, ok := r.labels[sink]
	return ok && l.known
}
