package app

import (
	"math/big"
	"testing"

	"github.com/pricegraph/pricegraph/business/pricegraph/domain"
)

func addr(b byte) domain.UserID {
	var a domain.UserID
	a[19] = b
	return a
}

func priceOf(num, den int64) domain.PriceFraction {
	return domain.PriceFraction{Numerator: big.NewInt(num), Denominator: big.NewInt(den)}
}

func elem(owner domain.UserID, sell, buy domain.TokenID, num, den int64, remaining, balance int64, orderID domain.OrderID) domain.Element {
	return domain.Element{
		Owner:               owner,
		Balance:             big.NewInt(balance),
		Pair:                domain.TokenPair{Sell: sell, Buy: buy},
		Valid:               domain.Validity{From: 0, To: 1000},
		Price:               priceOf(num, den),
		RemainingSellAmount: big.NewInt(remaining),
		OrderID:             orderID,
	}
}

func TestPricegraph_TransitiveOrderbook_SingleAsk(t *testing.T) {
	elements := []domain.Element{
		// price 2/1 before fee: sell 1 token of 1, receive ~1.998 of 2.
		elem(addr(1), 1, 2, 2, 1, 1000, 1000, 1),
	}
	pg, err := New(elements, 10, domain.DefaultDustThreshold, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	bids, asks, err := pg.TransitiveOrderbook(domain.Market{Base: 1, Quote: 2}, 0)
	if err != nil {
		t.Fatalf("TransitiveOrderbook: %v", err)
	}
	if len(bids) != 0 {
		t.Errorf("expected no bids (no reverse order exists), got %+v", bids)
	}
	if len(asks) != 1 {
		t.Fatalf("expected exactly one ask level, got %+v", asks)
	}
	if asks[0].Volume.Cmp(big.NewInt(1000)) != 0 {
		t.Errorf("expected the ask to fill to exhaustion (1000), got %v", asks[0].Volume)
	}
	wantPrice := domain.EffectivePrice(big.NewInt(2), big.NewInt(1))
	if asks[0].Price != wantPrice {
		t.Errorf("expected ask price %v, got %v", wantPrice, asks[0].Price)
	}
}

func TestPricegraph_BestAskPrice_And_ExchangeRate(t *testing.T) {
	elements := []domain.Element{
		elem(addr(1), 1, 2, 2, 1, 1000, 1000, 1),
	}
	pg, err := New(elements, 10, domain.DefaultDustThreshold, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	price, ok := pg.BestAskPrice(domain.Market{Base: 1, Quote: 2}, 0)
	if !ok {
		t.Fatal("expected a best ask price to exist")
	}
	wantPrice := domain.EffectivePrice(big.NewInt(2), big.NewInt(1))
	if price != wantPrice {
		t.Errorf("expected best ask price %v, got %v", wantPrice, price)
	}

	// No reverse edge exists, so the exchange rate quote->base is unreachable.
	if _, ok := pg.EstimateExchangeRate(domain.Market{Base: 1, Quote: 2}, 0); ok {
		t.Error("expected EstimateExchangeRate to report no reachable path")
	}
}

func TestPricegraph_EstimateLimitPrice_PartialDemandNotSatisfied(t *testing.T) {
	elements := []domain.Element{
		// quote(2) -> base(1), only 100 atoms of liquidity on that leg.
		elem(addr(1), 2, 1, 1, 1, 100, 100, 1),
	}
	pg, err := New(elements, 10, domain.DefaultDustThreshold, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Ask for far more than the book can supply on the quote->base leg.
	_, ok, err := pg.EstimateLimitPrice(domain.Market{Base: 1, Quote: 2}, big.NewInt(10_000), 0)
	if err != nil {
		t.Fatalf("EstimateLimitPrice: %v", err)
	}
	if ok {
		t.Error("expected ok=false when demand exceeds all available liquidity")
	}
}

func TestPricegraph_SelfMarket_HasNoOpposingEdges(t *testing.T) {
	m := domain.Market{Base: 1, Quote: 1}
	if !m.IsSelfMarket() {
		t.Fatal("expected IsSelfMarket to be true for base == quote")
	}

	elements := []domain.Element{
		elem(addr(1), 1, 2, 1, 1, 100, 100, 1),
	}
	pg, err := New(elements, 10, domain.DefaultDustThreshold, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	bids, asks, err := pg.TransitiveOrderbook(m, 0)
	if err != nil {
		t.Fatalf("TransitiveOrderbook: %v", err)
	}
	if len(bids) != 0 || len(asks) != 0 {
		t.Errorf("expected an empty ladder for a self-market query, got bids=%+v asks=%+v", bids, asks)
	}
}
