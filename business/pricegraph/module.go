// Package pricegraph implements the pricegraph bounded context: the
// pure pricing/graph-search engine (C1-C8) with no I/O of its own. The
// priceservice context owns the snapshot lifecycle and calls into the
// EngineFactory this module publishes.
package pricegraph

import (
	"context"

	"github.com/pricegraph/pricegraph/business/pricegraph/app"
	pgdi "github.com/pricegraph/pricegraph/business/pricegraph/di"
	"github.com/pricegraph/pricegraph/business/pricegraph/domain"
	"github.com/pricegraph/pricegraph/internal/config"
	"github.com/pricegraph/pricegraph/internal/di"
	"github.com/pricegraph/pricegraph/internal/monolith"
)

// Module implements the pricegraph bounded context.
type Module struct{}

// RegisterServices registers the engine factory with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, pgdi.Engine, func(sr di.ServiceRegistry) pgdi.EngineFactory {
		cfg := sr.Get("config").(*config.Config)

		return func(elements []domain.Element, batch domain.BatchID) (*app.Pricegraph, error) {
			return app.New(elements, batch, cfg.Service.DustThreshold, cfg.Service.DefaultHops)
		}
	})
	return nil
}

// Startup has nothing to do: the engine is pure and stateless until a
// caller feeds it a decoded snapshot.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "pricegraph module started")
	return nil
}
