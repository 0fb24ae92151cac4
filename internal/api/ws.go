package api

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"tarim-admin/internal/logger"
	"tarim-admin/internal/order"

	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

type feedMessage struct {
	Type   string        `json:"type"`
	Orders []order.Order `json:"orders,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// allowOrigins accepts requests without an Origin header and those whose
// origin is listed.
func allowOrigins(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(origins, "*") || slices.Contains(origins, origin) {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}

// ordersFeed pushes the full order list on every change of the realtime tree.
func (h *Handler) ordersFeed(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context()).With(
		zap.String("layer", "api"),
		zap.String("method", "ordersFeed"),
	)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var mu sync.Mutex
	send := func(msg feedMessage) {
		mu.Lock()
		defer mu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			log.Debug("websocket write failed", zap.Error(err))
			cancel()
		}
	}

	stop, err := h.Orders.Subscribe(ctx,
		func(orders []order.Order) {
			send(feedMessage{Type: "orders", Orders: orders})
		},
		func(err error) {
			send(feedMessage{Type: "error", Error: err.Error()})
		},
	)
	if err != nil {
		log.Error("failed to subscribe to orders", zap.Error(err))
		send(feedMessage{Type: "error", Error: err.Error()})
		return
	}
	defer stop()

	h.Metrics.Counter("ws_orders_connections").Inc()
	log.Info("orders feed opened")

	// Reads only detect the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("orders feed closed")
}
