// Package client provides a typed SDK for callers that want to query a
// running pricegraph-service over HTTP instead of embedding the engine
// directly (the model cmd/pricegraph-driver uses). This is the settlement
// driver's other option described in spec.md §1: a remote caller that
// consults price estimates out-of-process.
package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pricegraph/pricegraph/internal/httpclient"
)

// PriceClient queries a pricegraph-service instance's REST API.
type PriceClient struct {
	http httpclient.Client
}

// New creates a PriceClient targeting baseURL (e.g. "http://localhost:8080").
func New(baseURL string) (*PriceClient, error) {
	c, err := httpclient.NewInstrumentedClient(
		httpclient.WithBaseURL(baseURL),
		httpclient.WithProviderName("pricegraph-client"),
	)
	if err != nil {
		return nil, fmt.Errorf("priceservice client: %w", err)
	}
	return &PriceClient{http: c}, nil
}

// Level mirrors one price/volume entry in a market response.
type Level struct {
	Price  float64 `json:"price"`
	Volume string  `json:"volume"`
}

type marketResponse struct {
	Bids []Level `json:"bids"`
	Asks []Level `json:"asks"`
}

// TransitiveOrderbook fetches the bid/ask ladder for a market, reading
// exact atom-count strings (atoms=true on the wire).
func (c *PriceClient) TransitiveOrderbook(ctx context.Context, base, quote uint16, hops int) (bids, asks []Level, err error) {
	var out marketResponse
	_, err = c.http.NewRequest().
		SetQueryParam("hops", strconv.Itoa(hops)).
		SetQueryParam("atoms", "true").
		SetResult(&out).
		Get(ctx, fmt.Sprintf("/api/v1/markets/%d-%d", base, quote))
	if err != nil {
		return nil, nil, err
	}
	return out.Bids, out.Asks, nil
}

type buyResponse struct {
	Buy *string `json:"buy"`
}

// EstimateBuyAmount fetches the buy amount for selling sellInQuote atoms
// of the quote token, or ("", false, nil) if no path satisfies the full
// sell amount within the hop bound.
func (c *PriceClient) EstimateBuyAmount(ctx context.Context, base, quote uint16, sellInQuote string, hops int) (buy string, satisfied bool, err error) {
	var out buyResponse
	_, err = c.http.NewRequest().
		SetQueryParam("hops", strconv.Itoa(hops)).
		SetQueryParam("atoms", "true").
		SetResult(&out).
		Get(ctx, fmt.Sprintf("/api/v1/markets/%d-%d/estimated-buy-amount/%s", base, quote, sellInQuote))
	if err != nil {
		return "", false, err
	}
	if out.Buy == nil {
		return "", false, nil
	}
	return *out.Buy, true, nil
}

type amountsAtPriceResponse struct {
	Buy  string `json:"buy"`
	Sell string `json:"sell"`
}

// EstimateAmountsAtPrice fetches the largest matching buy/sell pair at
// or better than priceInQuote.
func (c *PriceClient) EstimateAmountsAtPrice(ctx context.Context, base, quote uint16, priceInQuote float64, hops int) (buy, sell string, err error) {
	var out amountsAtPriceResponse
	_, err = c.http.NewRequest().
		SetQueryParam("hops", strconv.Itoa(hops)).
		SetQueryParam("atoms", "true").
		SetResult(&out).
		Get(ctx, fmt.Sprintf("/api/v1/markets/%d-%d/estimated-amounts-at-price/%s", base, quote, strconv.FormatFloat(priceInQuote, 'f', -1, 64)))
	if err != nil {
		return "", "", err
	}
	return out.Buy, out.Sell, nil
}

type bestAskResponse struct {
	Price *float64 `json:"price"`
}

// EstimateBestAskPrice fetches the effective price of the cheapest
// base->quote path reachable within hops, or (0, false, nil) if no path
// exists.
func (c *PriceClient) EstimateBestAskPrice(ctx context.Context, base, quote uint16, hops int) (price float64, found bool, err error) {
	var out bestAskResponse
	_, err = c.http.NewRequest().
		SetQueryParam("hops", strconv.Itoa(hops)).
		SetResult(&out).
		Get(ctx, fmt.Sprintf("/api/v1/markets/%d-%d/estimated-best-ask-price", base, quote))
	if err != nil {
		return 0, false, err
	}
	if out.Price == nil {
		return 0, false, nil
	}
	return *out.Price, true, nil
}
