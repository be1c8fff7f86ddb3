package http

import (
	"encoding/json"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	pgapp "github.com/pricegraph/pricegraph/business/pricegraph/app"
	"github.com/pricegraph/pricegraph/business/pricegraph/domain"
	"github.com/pricegraph/pricegraph/business/priceservice/app"
	"github.com/pricegraph/pricegraph/internal/apperror"
	"github.com/pricegraph/pricegraph/internal/logger"
)

type handlers struct {
	svc *app.Service
	log logger.LoggerInterface
}

type askBid struct {
	Price  float64 `json:"price"`
	Volume any     `json:"volume"`
}

func (h *handlers) markets(w http.ResponseWriter, r *http.Request) {
	market, hops, atoms, ok := h.parseMarketRequest(w, r)
	if !ok {
		return
	}

	bids, asks, err := h.svc.TransitiveOrderbook(r.Context(), market, hops)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bids": levels(bids, atoms),
		"asks": levels(asks, atoms),
	})
}

func (h *handlers) estimatedBuyAmount(w http.ResponseWriter, r *http.Request) {
	market, hops, atoms, ok := h.parseMarketRequest(w, r)
	if !ok {
		return
	}

	sellInQuote, ok := parseAtoms(w, r.PathValue("sellInQuote"))
	if !ok {
		return
	}

	buy, satisfied, err := h.svc.EstimateBuyAmount(r.Context(), market, sellInQuote, hops)
	if err != nil {
		writeError(w, err)
		return
	}
	if !satisfied {
		writeJSON(w, http.StatusOK, map[string]any{"buy": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"buy": amount(buy, atoms)})
}

func (h *handlers) estimatedAmountsAtPrice(w http.ResponseWriter, r *http.Request) {
	market, hops, atoms, ok := h.parseMarketRequest(w, r)
	if !ok {
		return
	}

	price, err := strconv.ParseFloat(r.PathValue("price"), 64)
	if err != nil {
		http.Error(w, "invalid price", http.StatusBadRequest)
		return
	}

	buy, sell, err := h.svc.EstimateAmountsAtPrice(r.Context(), market, price, hops)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"buy":  amount(buy, atoms),
		"sell": amount(sell, atoms),
	})
}

func (h *handlers) estimatedBestAskPrice(w http.ResponseWriter, r *http.Request) {
	market, hops, _, ok := h.parseMarketRequest(w, r)
	if !ok {
		return
	}

	price, found, err := h.svc.EstimateBestAskPrice(r.Context(), market, hops)
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, map[string]any{"price": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"price": price})
}

func (h *handlers) parseMarketRequest(w http.ResponseWriter, r *http.Request) (domain.Market, int, bool, bool) {
	market, err := parseMarket(r.PathValue("pair"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return domain.Market{}, 0, false, false
	}

	hops := 0
	if raw := r.URL.Query().Get("hops"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "invalid hops", http.StatusBadRequest)
			return domain.Market{}, 0, false, false
		}
		hops = n
	}

	atoms := r.URL.Query().Get("atoms") == "true"
	return market, hops, atoms, true
}

func parseMarket(pair string) (domain.Market, error) {
	parts := strings.SplitN(pair, "-", 2)
	if len(parts) != 2 {
		return domain.Market{}, errInvalidMarket
	}
	base, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return domain.Market{}, errInvalidMarket
	}
	quote, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return domain.Market{}, errInvalidMarket
	}
	return domain.Market{Base: domain.TokenID(base), Quote: domain.TokenID(quote)}, nil
}

var errInvalidMarket = &marketFormatError{}

type marketFormatError struct{}

func (*marketFormatError) Error() string { return "market must be of the form {base}-{quote}" }

func parseAtoms(w http.ResponseWriter, raw string) (*big.Int, bool) {
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok || amount.Sign() < 0 {
		http.Error(w, "invalid amount", http.StatusBadRequest)
		return nil, false
	}
	return amount, true
}

// amount renders a big.Int atom count either as an exact decimal string
// (atoms=true, via shopspring/decimal so no digit is lost) or as a
// float64 (spec.md §6.2's documented >2^53 precision loss).
func amount(v *big.Int, atoms bool) any {
	if atoms {
		return decimal.NewFromBigInt(v, 0).String()
	}
	return domain.SaturatingAtomsToFloat(v)
}

func levels(in []pgapp.Level, atoms bool) []askBid {
	out := make([]askBid, len(in))
	for i, l := range in {
		out[i] = askBid{Price: l.Price, Volume: amount(l.Volume, atoms)}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	appErr, ok := err.(*apperror.AppError)
	if !ok {
		appErr = apperror.New(apperror.CodeInternalError, apperror.WithCause(err))
	}
	writeJSON(w, appErr.StatusCode, appErr.ToResponse())
}
