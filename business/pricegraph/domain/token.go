// Package domain implements the Pricegraph core: the canonical orderbook,
// its numeric model, and the encoding that feeds it. The package has no
// internal I/O and no dependency on the logging/config/transport stack
// that surrounds it - callers own concurrency, scheduling, and wiring.
package domain

import "github.com/ethereum/go-ethereum/common"

// TokenID is an opaque 16-bit token identifier. Token 0 is the
// distinguished fee token: fees are paid in it, and it has a well-defined
// price of 1 in itself.
type TokenID uint16

// FeeToken is the distinguished token protocol fees are denominated in.
const FeeToken TokenID = 0

// UserID is a 20-byte owner identity, reusing go-ethereum's address type
// since the wire format encodes owners the same way on-chain addresses are
// encoded everywhere else in this stack.
type UserID = common.Address

// OrderID is a per-owner ordinal used for deterministic tie-breaking
// between orders that would otherwise be indistinguishable along a path.
type OrderID uint16

// Market names a base/quote token pair for price queries. Asks are quoted
// as "receive Base in exchange for Quote"; bids are the inverse.
type Market struct {
	Base  TokenID
	Quote TokenID
}

// IsSelfMarket reports whether base and quote name the same token - a
// degenerate query that always yields an empty result (spec scenario S6).
func (m Market) IsSelfMarket() bool {
	return m.Base == m.Quote
}

// Inverse swaps base and quote, turning an ask market into its bid market.
func (m Market) Inverse() Market {
	return Market{Base: m.Quote, Quote: m.Base}
}

// TokenPair names the sell/buy tokens of a single edge or order. Unlike
// Market, a TokenPair is not queried symmetrically: Sell and Buy are
// direction-specific.
type TokenPair struct {
	Sell TokenID
	Buy  TokenID
}
