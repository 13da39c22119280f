package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/reva-evote/cliparse"
	"github.com/danielhkuo/reva-evote/kvstore"
	"github.com/danielhkuo/reva-evote/live"
	"github.com/danielhkuo/reva-evote/manifesto"
	"github.com/danielhkuo/reva-evote/middleware"
	"github.com/danielhkuo/reva-evote/router"
)

func main() {
	var err error

	// A missing .env is fine; real env vars still apply
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the backing store
	kv, err := kvstore.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("store open failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer kv.Close()
	slog.Info("Store ready", "type", cfg.DatabaseType)

	// Manifesto drafting falls back to fixed text without a key
	var gen manifesto.Generator = manifesto.Unavailable()
	if cfg.GeminiAPIKey != "" {
		gemini, err := manifesto.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Warn("gemini client unavailable, manifesto drafts will fall back", "error", err)
		} else {
			gen = gemini
		}
	} else {
		slog.Warn("no Gemini API key configured, manifesto drafts will fall back")
	}

	hub := live.NewHub()
	go hub.Run(ctx)

	// Create router
	mux := router.NewRouter(kv, cfg, gen, hub)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
