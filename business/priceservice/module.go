// Package priceservice implements the priceservice bounded context: the
// stateless HTTP price-estimation service built on top of the
// pricegraph engine (spec.md §6). It owns the snapshot lifecycle - the
// pricegraph context itself has no I/O.
package priceservice

import (
	"context"
	"time"

	pricegraphDI "github.com/pricegraph/pricegraph/business/pricegraph/di"
	"github.com/pricegraph/pricegraph/business/priceservice/app"
	priceserviceDI "github.com/pricegraph/pricegraph/business/priceservice/di"
	"github.com/pricegraph/pricegraph/business/priceservice/infra/snapshot"
	"github.com/pricegraph/pricegraph/internal/config"
	"github.com/pricegraph/pricegraph/internal/di"
	"github.com/pricegraph/pricegraph/internal/logger"
	"github.com/pricegraph/pricegraph/internal/monolith"
)

// Module implements the priceservice bounded context.
type Module struct{}

// RegisterServices registers the Service with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, priceserviceDI.Service, func(sr di.ServiceRegistry) *app.Service {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		factory := pricegraphDI.GetEngineFactory(sr)
		source := snapshot.NewFileSource(cfg.Snapshot.Path, log)

		return app.New(factory, source, log, cfg.Service.DefaultHops)
	})
	return nil
}

// Startup loads the first snapshot synchronously (so the service never
// answers queries against an empty engine) and then polls for updates in
// the background at the configured interval.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()
	svc := priceserviceDI.GetService(mono.Services())

	if err := svc.Reload(ctx); err != nil {
		log.Warn(ctx, "initial snapshot load failed, will retry in background", "error", err)
	}

	go func() {
		ticker := time.NewTicker(cfg.Snapshot.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := svc.Reload(ctx); err != nil {
					log.Warn(ctx, "snapshot reload failed", "error", err)
				}
			}
		}
	}()

	log.Info(ctx, "priceservice module started", "snapshot_path", cfg.Snapshot.Path)
	return nil
}
