// Package di contains dependency injection tokens for the pricegraph
// bounded context.
package di

import (
	"github.com/pricegraph/pricegraph/business/pricegraph/app"
	"github.com/pricegraph/pricegraph/business/pricegraph/domain"
	pgdi "github.com/pricegraph/pricegraph/internal/di"
)

// EngineFactory builds a Pricegraph façade from a decoded element set at
// a given batch. It closes over the configured dust threshold and
// default hop bound so callers never have to thread those through.
type EngineFactory func(elements []domain.Element, batch domain.BatchID) (*app.Pricegraph, error)

// Public service tokens - exposed to other modules (priceservice).
var (
	Engine = pgdi.NewToken[EngineFactory]("pricegraph.EngineFactory")
)

// GetEngineFactory resolves the EngineFactory token.
func GetEngineFactory(c pgdi.ServiceRegistry) EngineFactory {
	return pgdi.GetToken(c, Engine)
}
