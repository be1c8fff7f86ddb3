// Package main is a minimal example of the settlement-driver consumer
// described in spec.md §1: a caller that repeatedly consults price
// estimates when choosing orders to submit, without going through the
// HTTP service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pricegraph/pricegraph/business/pricegraph/app"
	"github.com/pricegraph/pricegraph/business/pricegraph/domain"
	"github.com/pricegraph/pricegraph/business/priceservice/infra/snapshot"
	"github.com/pricegraph/pricegraph/internal/logger"
)

func main() {
	snapshotPath := flag.String("snapshot", "orderbook.snapshot", "Path to the encoded orderbook snapshot")
	base := flag.Uint("base", 0, "Base token id")
	quote := flag.Uint("quote", 1, "Quote token id")
	interval := flag.Duration("interval", 5*time.Second, "Re-evaluation interval")
	flag.Parse()

	log := logger.New(os.Stderr, logger.LevelInfo, "pricegraph-driver", nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := snapshot.NewFileSource(*snapshotPath, log)
	market := domain.Market{Base: domain.TokenID(*base), Quote: domain.TokenID(*quote)}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		if err := evaluate(ctx, source, market, log); err != nil {
			log.Error(ctx, "evaluation failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func evaluate(ctx context.Context, source *snapshot.FileSource, market domain.Market, log logger.LoggerInterface) error {
	data, batch, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	elements, err := domain.DecodeElements(data)
	if err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	pg, err := app.New(elements, domain.BatchID(batch), domain.DefaultDustThreshold, 0)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	price, ok := pg.BestAskPrice(market, 0)
	if !ok {
		log.Info(ctx, "no path found for market", "base", market.Base, "quote", market.Quote)
		return nil
	}

	log.Info(ctx, "best ask price", "base", market.Base, "quote", market.Quote, "price", price)
	return nil
}
