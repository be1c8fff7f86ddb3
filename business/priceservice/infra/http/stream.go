package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

const streamPushInterval = 2 * time.Second

// stream pushes the current market ladder for {pair} to the client
// every streamPushInterval, until the client disconnects. This is a
// supplement to the spec's request/response routes: a caller that wants
// to watch a market's best price move without polling.
func (h *handlers) stream(w http.ResponseWriter, r *http.Request) {
	market, hops, atoms, ok := h.parseMarketRequest(w, r)
	if !ok {
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.Warn(r.Context(), "websocket accept failed", "error", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()
	ticker := time.NewTicker(streamPushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bids, asks, err := h.svc.TransitiveOrderbook(ctx, market, hops)
			if err != nil {
				return
			}
			payload, err := json.Marshal(map[string]any{
				"bids": levels(bids, atoms),
				"asks": levels(asks, atoms),
			})
			if err != nil {
				return
			}
			if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
				return
			}
		}
	}
}
