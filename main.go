// Package main our entry point.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/johndosdos/chatrelay/internal"
	"github.com/johndosdos/chatrelay/internal/config"
	"github.com/johndosdos/chatrelay/internal/database"
	"github.com/johndosdos/chatrelay/internal/store"
	ws "github.com/johndosdos/chatrelay/internal/websocket"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slog.SetDefault(cfg.Logger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting application",
		"profile", cfg.Profile,
		"store", cfg.Driver())

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open message store: %v", err)
	}

	// hub.Run is our central hub that is always listening for client related events.
	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := ws.NewHub(st, cfg.SanitizeMessages)
	go hub.Run(hubCtx)

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           internal.NewRouter(hub, st, cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received; shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	// Websocket connections are hijacked, so the hub closes them itself.
	// Wait for it before the store goes away.
	stopHub()
	<-hub.Done()

	if err := st.Close(); err != nil {
		slog.Error("failed to close message store", "error", err)
	}

	slog.Info("server stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (store.MessageStore, error) {
	switch cfg.Driver() {
	case config.DriverNone:
		slog.Warn("DATABASE_URL is not set; messages will not be persisted")
		return store.NopStore{}, nil

	case config.DriverPostgres:
		pg, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.Up(pg.Pool()); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil

	case config.DriverSQLite:
		lite, err := store.OpenSQLite(cfg.SQLitePath(), cfg.Debug)
		if err != nil {
			return nil, err
		}
		return lite, nil
	}

	return nil, fmt.Errorf("unsupported DATABASE_URL scheme")
}
