package app

import (
	"math"
	"math/big"

	"github.com/pricegraph/pricegraph/business/pricegraph/domain"
	"github.com/pricegraph/pricegraph/business/pricegraph/graph"
)

// Pricegraph is the query-facing façade (C7): it owns the full decoded
// orderbook plus its canonical, ring-free reduction, and answers every
// query against a throwaway clone of the latter so that no query ever
// observes another query's fills (spec.md §5's "no internal I/O,
// single-threaded, pure with respect to inputs" contract - callers
// serialize access to the shared canonical state, the façade itself
// never mutates it).
type Pricegraph struct {
	full        *domain.Orderbook
	reduced     *domain.Orderbook
	defaultHops int
}

// New decodes elements into an orderbook at batch, reduces it to
// ring-free form, and returns the façade ready for queries. defaultHops
// <= 0 defers to the graph's own "token count minus one" default
// (spec.md §4.6).
func New(elements []domain.Element, batch domain.BatchID, dustThreshold int64, defaultHops int) (*Pricegraph, error) {
	full, err := domain.NewOrderbook(elements, batch, dustThreshold)
	if err != nil {
		return nil, err
	}

	reduced := full.Clone()
	if err := ReduceOverlappingOrders(reduced); err != nil {
		return nil, err
	}

	return &Pricegraph{full: full, reduced: reduced, defaultHops: defaultHops}, nil
}

// FullOrderbook returns the unreduced orderbook, as decoded - exposed
// for diagnostics and for callers that want to inspect raw order state
// without the reduce pass's synthetic ring fills.
func (pg *Pricegraph) FullOrderbook() *domain.Orderbook {
	return pg.full
}

// ReducedOrderbook returns the canonical ring-free orderbook every query
// clones from.
func (pg *Pricegraph) ReducedOrderbook() *domain.Orderbook {
	return pg.reduced
}

func (pg *Pricegraph) hops(override int) int {
	if override > 0 {
		return override
	}
	return pg.defaultHops
}

// Level is one fully-filled path contributed to a transitive_orderbook
// ladder.
type Level struct {
	Price  float64
	Volume *big.Int
}

// TransitiveOrderbook computes the aggregated bid/ask ladder between
// base and quote (spec.md §4.5.1). Asks are the repeated cheapest
// base->quote path, filled to exhaustion, in discovery order; the
// cheapest path is the one with the highest p_eff, so ask prices never
// increase from one level to the next. Bids are computed on the reversed
// market (quote->base) and their price is then inverted back into
// quote-per-base terms, so bid prices never decrease; bid volume is
// reported in the reversed market's own fill units (quote-token atoms).
func (pg *Pricegraph) TransitiveOrderbook(market domain.Market, hops int) (bids, asks []Level, err error) {
	hops = pg.hops(hops)

	askOb := pg.reduced.Clone()
	askContribs, _, err := RunFillLoop(askOb, market.Base, market.Quote, hops, nil, math.Inf(1))
	if err != nil {
		return nil, nil, err
	}
	for _, c := range askContribs {
		asks = append(asks, Level{Price: c.PriceEff, Volume: c.Volume})
	}

	bidOb := pg.reduced.Clone()
	bidContribs, _, err := RunFillLoop(bidOb, market.Quote, market.Base, hops, nil, math.Inf(1))
	if err != nil {
		return nil, nil, err
	}
	for _, c := range bidContribs {
		bids = append(bids, Level{Price: invert(c.PriceEff), Volume: c.Volume})
	}

	return bids, asks, nil
}

// EstimateLimitPrice clones the orderbook and repeatedly pulls the
// cheapest quote->base path, accumulating Δbuy = Δsell/p_eff, until
// sellAmountInQuote is fully absorbed or no path remains (spec.md
// §4.5.2). ok is false if demand could not be satisfied in full.
func (pg *Pricegraph) EstimateLimitPrice(market domain.Market, sellAmountInQuote *big.Int, hops int) (*big.Int, bool, error) {
	ob := pg.reduced.Clone()
	contribs, totalSell, err := RunFillLoop(ob, market.Quote, market.Base, pg.hops(hops), sellAmountInQuote, math.Inf(1))
	if err != nil {
		return nil, false, err
	}
	if totalSell.Cmp(sellAmountInQuote) < 0 {
		return nil, false, nil
	}
	return sumBuy(contribs), true, nil
}

// EstimateAmountsAtPrice clones the orderbook and accepts every cheapest
// quote->base path whose own p_eff is at most priceInQuote, fully
// filling each, until no further path satisfies the bound (spec.md
// §4.5.3). Returns (0, 0) if no path satisfies the bound.
func (pg *Pricegraph) EstimateAmountsAtPrice(market domain.Market, priceInQuote float64, hops int) (buyInBase, sellInQuote *big.Int, err error) {
	ob := pg.reduced.Clone()
	contribs, totalSell, err := RunFillLoop(ob, market.Quote, market.Base, pg.hops(hops), nil, priceInQuote)
	if err != nil {
		return nil, nil, err
	}
	return sumBuy(contribs), totalSell, nil
}

// EstimateExchangeRate returns the p_eff of the single cheapest
// quote->base path under the hop cap, without filling anything (spec.md
// §4.5.4).
func (pg *Pricegraph) EstimateExchangeRate(market domain.Market, hops int) (float64, bool) {
	if market.IsSelfMarket() {
		return 0, false
	}
	g := graph.Build(pg.reduced)
	result := graph.BellmanFord(g, market.Quote, pg.hops(hops))
	if !result.Reached(market.Base) {
		return 0, false
	}
	p, _ := result.PathTo(market.Base)
	return domain.EffectivePriceFromWeight(p.TotalWeight()), true
}

// BestAskPrice returns the p_eff of the single cheapest base->quote path
// under the hop cap, without filling anything - the "what would my next
// unit of base sell for" quote (spec.md §6.3's estimated-best-ask-price).
func (pg *Pricegraph) BestAskPrice(market domain.Market, hops int) (float64, bool) {
	if market.IsSelfMarket() {
		return 0, false
	}
	g := graph.Build(pg.reduced)
	result := graph.BellmanFord(g, market.Base, pg.hops(hops))
	if !result.Reached(market.Quote) {
		return 0, false
	}
	p, _ := result.PathTo(market.Quote)
	return domain.EffectivePriceFromWeight(p.TotalWeight()), true
}

// OrderForSellAmount runs the same loop as EstimateLimitPrice but
// returns the aggregate (sell, buy) pair filled, whether or not the full
// demand was satisfied (spec.md §4.5.5).
func (pg *Pricegraph) OrderForSellAmount(market domain.Market, sellAmountInQuote *big.Int, hops int) (sell, buy *big.Int, err error) {
	ob := pg.reduced.Clone()
	contribs, totalSell, err := RunFillLoop(ob, market.Quote, market.Base, pg.hops(hops), sellAmountInQuote, math.Inf(1))
	if err != nil {
		return nil, nil, err
	}
	return totalSell, sumBuy(contribs), nil
}

// OrderForLimitPrice runs the same loop as EstimateAmountsAtPrice but
// returns the aggregate (sell, buy) pair filled (spec.md §4.5.5).
func (pg *Pricegraph) OrderForLimitPrice(market domain.Market, priceInQuote float64, hops int) (sell, buy *big.Int, err error) {
	ob := pg.reduced.Clone()
	contribs, totalSell, err := RunFillLoop(ob, market.Quote, market.Base, pg.hops(hops), nil, priceInQuote)
	if err != nil {
		return nil, nil, err
	}
	return totalSell, sumBuy(contribs), nil
}

func sumBuy(contribs []Contribution) *big.Int {
	total := new(big.Float)
	for _, c := range contribs {
		delta := new(big.Float).Quo(new(big.Float).SetInt(c.Volume), big.NewFloat(c.PriceEff))
		total.Add(total, delta)
	}
	out, _ := total.Int(nil)
	return out
}

func invert(p float64) float64 {
	if p == 0 {
		return math.Inf(1)
	}
	return 1 / p
}
