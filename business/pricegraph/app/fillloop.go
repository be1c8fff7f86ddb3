package app

import (
	"math/big"

	"github.com/pricegraph/pricegraph/business/pricegraph/domain"
	"github.com/pricegraph/pricegraph/business/pricegraph/graph"
)

// Contribution records one fully-filled path during a fill loop: the
// path's effective price (product of p_eff along its edges) and the
// sell-amount, in the loop's source-token atoms, that path absorbed.
type Contribution struct {
	PriceEff float64
	Volume   *big.Int
}

// RunFillLoop implements the transitive fill loop (C6): repeatedly pull
// the cheapest source->sink path within hops edges, fill it to
// exhaustion (or to the remaining demand, if demand is non-nil), and
// stop when demand is satisfied, no path remains, or the next path's
// price exceeds priceLimit (math.Inf(1) for "no limit" - the best-price
// ladder case). ob is mutated destructively; callers pass a clone when
// they need to preserve the pre-fill state (spec.md §5).
//
// Returns the contributions in discovery order and the total source-unit
// volume filled across all of them.
func RunFillLoop(ob *domain.Orderbook, source, sink domain.TokenID, hops int, demand *big.Int, priceLimit float64) ([]Contribution, *big.Int, error) {
	var contributions []Contribution
	totalFilled := big.NewInt(0)

	g := graph.Build(ob)

	for {
		if demand != nil && totalFilled.Cmp(demand) >= 0 {
			break
		}

		result := graph.BellmanFord(g, source, hops)
		if result.Cycle != nil {
			// ob is expected to already be ring-free (post-reduce); if a
			// cycle still shows up mid-loop, drain it and keep going
			// rather than returning a stale or negative-price result.
			if _, err := fillAlongPath(ob, path(result.Cycle.AsPath()), nil); err != nil {
				return nil, nil, err
			}
			continue
		}
		if !result.Reached(sink) {
			break
		}

		p, _ := result.PathTo(sink)
		pEff := domain.EffectivePriceFromWeight(p.TotalWeight())
		if pEff > priceLimit {
			break
		}

		var remaining *big.Int
		if demand != nil {
			remaining = new(big.Int).Sub(demand, totalFilled)
		}

		filled, err := fillAlongPath(ob, p, remaining)
		if err != nil {
			return nil, nil, err
		}
		if filled.Sign() <= 0 {
			break // no progress possible on the cheapest remaining path
		}

		contributions = append(contributions, Contribution{PriceEff: pEff, Volume: filled})
		totalFilled = new(big.Int).Add(totalFilled, filled)
	}

	return contributions, totalFilled, nil
}

// path is a tiny identity helper so a graph.Path value (as produced by
// NegativeCycle.AsPath) can be passed where *graph.Path is expected.
func path(p graph.Path) *graph.Path { return &p }
