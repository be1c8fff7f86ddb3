// Package app implements the query-facing operations built on top of the
// domain and graph packages: the reducer (C8), the transitive fill loop
// (C6), and the estimator façade (C7).
package app

import (
	"math/big"

	"github.com/pricegraph/pricegraph/business/pricegraph/domain"
	"github.com/pricegraph/pricegraph/business/pricegraph/graph"
)

// fillAlongPath computes the maximum sell-amount fillable at path's
// source edge and applies it to every edge along the path, per spec.md
// §4.6's reduction:
//
//	cap_P = min_i ( capacity_i . prod_{j<i} p_eff_j )
//
// back-projecting each edge's own capacity into source-token units via
// the cumulative effective price of the edges before it. When demand is
// non-nil, the fill is further capped at demand. A nil demand means
// "fill the path to exhaustion" (used by reduce and by the best-price
// ladder, which has no caller-supplied limit).
//
// Returns the sell-amount actually filled at the source (zero if the
// path had no positive capacity anywhere).
func fillAlongPath(ob *domain.Orderbook, path *graph.Path, demand *big.Int) (*big.Int, error) {
	if len(path.Edges) == 0 {
		return big.NewInt(0), nil
	}

	cumProd := big.NewFloat(1) // product of p_eff over edges strictly before the current one
	cumBefore := make([]*big.Float, len(path.Edges))
	fill := (*big.Float)(nil)

	for i, e := range path.Edges {
		cumBefore[i] = new(big.Float).Copy(cumProd)

		capacity := new(big.Float).SetInt(ob.EffectiveAmount(e.Ref))
		backProjected := new(big.Float).Mul(capacity, cumBefore[i])

		if fill == nil || backProjected.Cmp(fill) < 0 {
			fill = backProjected
		}

		order := ob.Order(e.Ref)
		cumProd = new(big.Float).Mul(cumProd, big.NewFloat(order.EffectivePrice))
	}

	if demand != nil {
		demandFloat := new(big.Float).SetInt(demand)
		if demandFloat.Cmp(fill) < 0 {
			fill = demandFloat
		}
	}

	fillAtoms, _ := fill.Int(nil) // truncates toward zero: never over-fills on rounding
	if fillAtoms.Sign() <= 0 {
		return big.NewInt(0), nil
	}

	for i, e := range path.Edges {
		needed := new(big.Float).Quo(new(big.Float).SetInt(fillAtoms), cumBefore[i])
		neededAtoms, _ := needed.Int(nil)
		capacity := ob.EffectiveAmount(e.Ref)
		neededAtoms = domain.MinBigInt(neededAtoms, capacity) // guard against float rounding drift
		if neededAtoms.Sign() <= 0 {
			continue
		}
		if _, err := ob.ApplyFill(e.Ref, neededAtoms); err != nil {
			return nil, err
		}
	}

	return fillAtoms, nil
}
