package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTransitiveOrderbook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/markets/0-1" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("hops") != "3" {
			t.Fatalf("expected hops=3, got %q", r.URL.Query().Get("hops"))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"bids": []map[string]any{{"price": 0.5, "volume": "1000"}},
			"asks": []map[string]any{{"price": 2.0, "volume": "500"}},
		})
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	bids, asks, err := c.TransitiveOrderbook(context.Background(), 0, 1, 3)
	if err != nil {
		t.Fatalf("TransitiveOrderbook: %v", err)
	}
	if len(bids) != 1 || bids[0].Price != 0.5 || bids[0].Volume != "1000" {
		t.Errorf("unexpected bids: %+v", bids)
	}
	if len(asks) != 1 || asks[0].Price != 2.0 || asks[0].Volume != "500" {
		t.Errorf("unexpected asks: %+v", asks)
	}
}

func TestEstimateBuyAmount_NoPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"buy": nil})
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, satisfied, err := c.EstimateBuyAmount(context.Background(), 0, 1, "1000", 2)
	if err != nil {
		t.Fatalf("EstimateBuyAmount: %v", err)
	}
	if satisfied {
		t.Error("expected satisfied=false when the server reports no matching path")
	}
}

func TestEstimateBestAskPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/estimated-best-ask-price") {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"price": 1.25})
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	price, found, err := c.EstimateBestAskPrice(context.Background(), 0, 1, 1)
	if err != nil {
		t.Fatalf("EstimateBestAskPrice: %v", err)
	}
	if !found || price != 1.25 {
		t.Errorf("expected found=true price=1.25, got found=%v price=%v", found, price)
	}
}
