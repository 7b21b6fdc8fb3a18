// Package handler holds the HTTP handlers.
package handler

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/coder/websocket"

	ws "github.com/johndosdos/chatrelay/internal/websocket"
)

// ServeWs handles the client's websocket connection upgrade. allowedOrigins
// are the origins allowed to connect cross-origin, e.g.
// "https://chat.example.com"; "*" allows any.
func ServeWs(h *ws.Hub, allowedOrigins []string) http.HandlerFunc {
	opts := &websocket.AcceptOptions{
		InsecureSkipVerify: slices.Contains(allowedOrigins, "*"),
		OriginPatterns:     originHosts(allowedOrigins),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		conn, err := websocket.Accept(w, r, opts)
		if err != nil {
			slog.WarnContext(ctx, "failed to upgrade connection to websocket", "error", err)
			return
		}

		c := ws.NewClient(conn, h)
		if err := h.Register(ctx, c); err != nil {
			slog.WarnContext(ctx, "failed to register client", "error", err)
			conn.Close(websocket.StatusGoingAway, "server unavailable")
			return
		}

		slog.InfoContext(ctx, "client connected",
			"client_id", c.ID.String(),
			"remote_addr", r.RemoteAddr)

		// We block on c.ReadMessage() because the request context is cancelled
		// as soon as we return from the handler.
		go c.WriteMessage(ctx)
		c.ReadMessage(ctx)

		slog.InfoContext(ctx, "client disconnected", "client_id", c.ID.String())
	}
}

// originHosts turns origins into the host patterns websocket.Accept matches.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimPrefix(o, "https://")
		o = strings.TrimPrefix(o, "http://")
		hosts = append(hosts, strings.TrimSuffix(o, "/"))
	}
	return hosts
}
