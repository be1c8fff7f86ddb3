// Package main is the terminal ladder viewer: it connects to a running
// pricegraph-service's /stream/{pair} websocket endpoint and renders
// the live bid/ask ladder.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pricegraph/pricegraph/internal/wsconn"
	"github.com/pricegraph/pricegraph/pkg/ui"
)

type wireLevel struct {
	Price  float64 `json:"price"`
	Volume any     `json:"volume"`
}

type wirePayload struct {
	Bids []wireLevel `json:"bids"`
	Asks []wireLevel `json:"asks"`
}

func main() {
	serviceURL := flag.String("url", "http://localhost:8080", "Base URL of the pricegraph-service")
	pair := flag.String("pair", "0-1", "Market pair as {base}-{quote}")
	hops := flag.Int("hops", 3, "Initial hop bound")
	atoms := flag.Bool("atoms", false, "Request exact atom strings instead of floats")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ui.HopsChanged = func(newHops int) {
		// No-op: the stream URL is built once with the startup hop
		// bound and every redial reuses it, so a changed hop bound
		// only changes what the UI displays.
	}

	go runStream(ctx, *serviceURL, *pair, *hops, *atoms)

	if err := ui.Run(*pair, *hops); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runStream(ctx context.Context, serviceURL, pair string, hops int, atoms bool) {
	wsURL, err := streamURL(serviceURL, pair, hops, atoms)
	if err != nil {
		ui.Send(ui.ErrorMsg{Error: err})
		return
	}

	for {
		if ctx.Err() != nil {
			return
		}
		if err := connectAndStream(ctx, wsURL, pair); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
			ui.Send(ui.ConnectionStatusMsg{Connected: false, Status: "disconnected"})
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

func connectAndStream(ctx context.Context, wsURL, pair string) error {
	client, err := wsconn.New(wsconn.DefaultConfig(wsURL, "pricegraph-tui"))
	if err != nil {
		return err
	}
	defer client.Close()

	client.OnStateChange(func(state wsconn.State, err error) {
		ui.Send(ui.ConnectionStatusMsg{
			Connected: state == wsconn.StateConnected,
			Status:    string(state),
		})
	})

	client.OnMessage(func(_ context.Context, msg []byte) {
		var payload wirePayload
		if err := json.Unmarshal(msg, &payload); err != nil {
			ui.Send(ui.ErrorMsg{Error: fmt.Errorf("decode ladder: %w", err)})
			return
		}
		ui.Send(ui.LadderMsg{
			Market: pair,
			Bids:   toEntries(payload.Bids),
			Asks:   toEntries(payload.Asks),
		})
	})

	if err := client.Connect(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

func toEntries(in []wireLevel) []ui.LadderEntry {
	out := make([]ui.LadderEntry, len(in))
	for i, l := range in {
		out[i] = ui.LadderEntry{Price: l.Price, Volume: formatVolume(l.Volume)}
	}
	return out
}

func formatVolume(v any) string {
	switch vv := v.(type) {
	case string:
		return vv
	case float64:
		return strconv.FormatFloat(vv, 'f', 4, 64)
	default:
		return fmt.Sprintf("%v", vv)
	}
}

func streamURL(serviceURL, pair string, hops int, atoms bool) (string, error) {
	u, err := url.Parse(serviceURL)
	if err != nil {
		return "", fmt.Errorf("parse service url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/stream/" + pair

	q := u.Query()
	q.Set("hops", strconv.Itoa(hops))
	if atoms {
		q.Set("atoms", "true")
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
