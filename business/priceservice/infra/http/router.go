// Package http implements the stateless price-estimation HTTP service
// (spec.md §6.3): a thin net/http.ServeMux surface over
// business/priceservice/app.Service.
package http

import (
	"net/http"

	"github.com/pricegraph/pricegraph/business/priceservice/app"
	"github.com/pricegraph/pricegraph/internal/logger"
	"github.com/pricegraph/pricegraph/internal/ratelimit"
)

// NewRouter builds the service's net/http.ServeMux, using Go's
// method+path pattern matching the same way internal/health wires its
// own endpoints.
func NewRouter(svc *app.Service, log logger.LoggerInterface, limiter *ratelimit.Limiter) http.Handler {
	h := &handlers{svc: svc, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/markets/{pair}", h.markets)
	mux.HandleFunc("GET /api/v1/markets/{pair}/estimated-buy-amount/{sellInQuote}", h.estimatedBuyAmount)
	mux.HandleFunc("GET /api/v1/markets/{pair}/estimated-amounts-at-price/{price}", h.estimatedAmountsAtPrice)
	mux.HandleFunc("GET /api/v1/markets/{pair}/estimated-best-ask-price", h.estimatedBestAskPrice)
	mux.HandleFunc("GET /stream/{pair}", h.stream)

	var handler http.Handler = withRecover(log, mux)
	if limiter != nil {
		handler = withRateLimit(limiter, handler)
	}
	return withLogging(log, handler)
}
