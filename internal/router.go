// Package internal wires the HTTP routes.
package internal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/johndosdos/chatrelay/internal/handler"
	"github.com/johndosdos/chatrelay/internal/store"
	ws "github.com/johndosdos/chatrelay/internal/websocket"
)

// NewRouter serves the chat page on "/" and the real-time channel on "/ws".
func NewRouter(hub *ws.Hub, st store.MessageStore, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	}).Handler)

	r.Get("/", handler.ServeRoot(st))
	r.Get("/ws", handler.ServeWs(hub, allowedOrigins))

	return r
}
