// Package di contains dependency injection tokens for the priceservice
// bounded context.
package di

import (
	"github.com/pricegraph/pricegraph/business/priceservice/app"
	pgdi "github.com/pricegraph/pricegraph/internal/di"
)

// Public service tokens - exposed to other modules (the HTTP entry
// point resolves Service to build its router).
var (
	Service = pgdi.NewToken[*app.Service]("priceservice.Service")
)

// GetService resolves the Service token.
func GetService(c pgdi.ServiceRegistry) *app.Service {
	return pgdi.GetToken(c, Service)
}
