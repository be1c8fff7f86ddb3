// Package app contains the priceservice bounded context's application
// service: it owns the snapshot lifecycle and exposes the engine's
// queries over a stable, stateless interface (spec.md §5, §6.2).
package app

import (
	"context"
	"math/big"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	pgapp "github.com/pricegraph/pricegraph/business/pricegraph/app"
	pgdi "github.com/pricegraph/pricegraph/business/pricegraph/di"
	"github.com/pricegraph/pricegraph/business/pricegraph/domain"
	"github.com/pricegraph/pricegraph/internal/apperror"
	"github.com/pricegraph/pricegraph/internal/logger"
)

const (
	tracerName = "priceservice"
	meterName  = "priceservice"
)

// serviceMetrics holds one OTEL histogram per query kind, matching the
// per-instrument-per-concern shape the uniswap provider uses for its own
// quote latency.
type serviceMetrics struct {
	transitiveOrderbookDuration metric.Float64Histogram
	estimateBuyAmountDuration   metric.Float64Histogram
	estimateAmountsAtPrice      metric.Float64Histogram
	estimateBestAskPrice        metric.Float64Histogram
}

// Service rebuilds a Pricegraph engine from a SnapshotSource and answers
// queries against the current one. Reload swaps the engine atomically so
// in-flight queries always see a single, consistent snapshot (spec.md
// §5's "no query ever observes a partially-applied fill from another
// query" - here extended to "or from a concurrent reload").
type Service struct {
	factory pgdi.EngineFactory
	source  SnapshotSource
	log     logger.LoggerInterface
	hops    int

	engine  atomic.Pointer[pgapp.Pricegraph]
	tracer  trace.Tracer
	metrics *serviceMetrics
}

// New builds a Service. It does not load a snapshot; call Reload once
// before serving queries.
func New(factory pgdi.EngineFactory, source SnapshotSource, log logger.LoggerInterface, defaultHops int) *Service {
	return &Service{
		factory: factory,
		source:  source,
		log:     log,
		hops:    defaultHops,
		tracer:  otel.Tracer(tracerName),
		metrics: newServiceMetrics(),
	}
}

func newServiceMetrics() *serviceMetrics {
	meter := otel.Meter(meterName)

	transitive, err := meter.Float64Histogram(
		"priceservice_transitive_orderbook_duration_ms",
		metric.WithDescription("Latency of the transitive-orderbook ladder query, in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		panic(err)
	}
	buyAmount, err := meter.Float64Histogram(
		"priceservice_estimate_buy_amount_duration_ms",
		metric.WithDescription("Latency of the estimated-buy-amount query, in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		panic(err)
	}
	amountsAtPrice, err := meter.Float64Histogram(
		"priceservice_estimate_amounts_at_price_duration_ms",
		metric.WithDescription("Latency of the estimated-amounts-at-price query, in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		panic(err)
	}
	bestAskPrice, err := meter.Float64Histogram(
		"priceservice_estimate_best_ask_price_duration_ms",
		metric.WithDescription("Latency of the estimated-best-ask-price query, in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		panic(err)
	}

	return &serviceMetrics{
		transitiveOrderbookDuration: transitive,
		estimateBuyAmountDuration:   buyAmount,
		estimateAmountsAtPrice:      amountsAtPrice,
		estimateBestAskPrice:        bestAskPrice,
	}
}

// Reload pulls the latest bytes from the snapshot source, decodes and
// reduces them into a fresh engine, and swaps it in. The previous engine
// (and any queries still cloning from it) is left untouched.
func (s *Service) Reload(ctx context.Context) error {
	data, batchID, err := s.source.Load(ctx)
	if err != nil {
		return apperror.New(apperror.CodeSnapshotUnavailable, apperror.WithCause(err))
	}

	elements, err := domain.DecodeElements(data)
	if err != nil {
		return apperror.New(apperror.CodeMalformedEncoding, apperror.WithCause(err))
	}

	engine, err := s.factory(elements, domain.BatchID(batchID))
	if err != nil {
		return apperror.New(apperror.CodeInvalidOrder, apperror.WithCause(err))
	}

	s.engine.Store(engine)
	s.log.Info(ctx, "snapshot reloaded", "batch", batchID, "orders", len(elements))
	return nil
}

// Ready reports whether a snapshot has ever loaded successfully.
func (s *Service) Ready() bool {
	return s.engine.Load() != nil
}

func (s *Service) current() (*pgapp.Pricegraph, error) {
	engine := s.engine.Load()
	if engine == nil {
		return nil, apperror.New(apperror.CodeSnapshotUnavailable,
			apperror.WithContext("no snapshot has been loaded yet"))
	}
	return engine, nil
}

func marketAttrs(market domain.Market) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("base", int(market.Base)),
		attribute.Int("quote", int(market.Quote)),
	}
}

// TransitiveOrderbook answers the markets/ladder query (spec.md §6.2). One
// span and one histogram sample cover both the ask and the bid fill-loop
// invocations that back the ladder.
func (s *Service) TransitiveOrderbook(ctx context.Context, market domain.Market, hops int) (bids, asks []pgapp.Level, err error) {
	pg, err := s.current()
	if err != nil {
		return nil, nil, err
	}

	ctx, span := s.tracer.Start(ctx, "priceservice.transitive_orderbook", trace.WithAttributes(marketAttrs(market)...))
	defer span.End()

	start := time.Now()
	bids, asks, err = pg.TransitiveOrderbook(market, s.resolveHops(hops))
	s.metrics.transitiveOrderbookDuration.Record(ctx, float64(time.Since(start).Milliseconds()))
	if err != nil {
		span.RecordError(err)
	}
	return bids, asks, err
}

// EstimateBuyAmount answers the estimated-buy-amount query.
func (s *Service) EstimateBuyAmount(ctx context.Context, market domain.Market, sellInQuote *big.Int, hops int) (*big.Int, bool, error) {
	pg, err := s.current()
	if err != nil {
		return nil, false, err
	}

	ctx, span := s.tracer.Start(ctx, "priceservice.estimate_buy_amount", trace.WithAttributes(marketAttrs(market)...))
	defer span.End()

	start := time.Now()
	buy, ok, err := pg.EstimateLimitPrice(market, sellInQuote, s.resolveHops(hops))
	s.metrics.estimateBuyAmountDuration.Record(ctx, float64(time.Since(start).Milliseconds()))
	if err != nil {
		span.RecordError(err)
	}
	return buy, ok, err
}

// EstimateAmountsAtPrice answers the estimated-amounts-at-price query.
func (s *Service) EstimateAmountsAtPrice(ctx context.Context, market domain.Market, priceInQuote float64, hops int) (buy, sell *big.Int, err error) {
	pg, err := s.current()
	if err != nil {
		return nil, nil, err
	}

	ctx, span := s.tracer.Start(ctx, "priceservice.estimate_amounts_at_price", trace.WithAttributes(marketAttrs(market)...))
	defer span.End()

	start := time.Now()
	buy, sell, err = pg.EstimateAmountsAtPrice(market, priceInQuote, s.resolveHops(hops))
	s.metrics.estimateAmountsAtPrice.Record(ctx, float64(time.Since(start).Milliseconds()))
	if err != nil {
		span.RecordError(err)
	}
	return buy, sell, err
}

// EstimateBestAskPrice answers the estimated-best-ask-price query. It does
// not run a fill loop (BestAskPrice only walks Bellman-Ford), so it is
// timed but not spanned.
func (s *Service) EstimateBestAskPrice(ctx context.Context, market domain.Market, hops int) (float64, bool, error) {
	pg, err := s.current()
	if err != nil {
		return 0, false, err
	}

	start := time.Now()
	price, ok := pg.BestAskPrice(market, s.resolveHops(hops))
	s.metrics.estimateBestAskPrice.Record(ctx, float64(time.Since(start).Milliseconds()))
	return price, ok, nil
}

func (s *Service) resolveHops(override int) int {
	if override > 0 {
		return override
	}
	return s.hops
}
