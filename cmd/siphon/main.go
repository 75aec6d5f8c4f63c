// Command siphon runs the HTTP front end over orchestrate.Orchestrator: a
// gin server exposing /api/v1/crawl, /api/v1/cache, and /api/v1/health,
// backed by a headless-browser pool and an on-disk result cache.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/siphon/api"
	"github.com/use-agent/siphon/browser"
	"github.com/use-agent/siphon/cache"
	"github.com/use-agent/siphon/config"
	"github.com/use-agent/siphon/crawler"
	"github.com/use-agent/siphon/internal/logx"
	"github.com/use-agent/siphon/orchestrate"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	log, err := logx.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialise logger:", err)
		os.Exit(1)
	}
	log.Info(logx.TagComplete, "event", "siphon starting",
		"host", cfg.Server.Host, "port", cfg.Server.Port, "mode", cfg.Server.Mode)

	// ── 3. Initialise the browser manager ───────────────────────────
	hooks := &browser.Hooks{}
	mgr, err := browser.New(cfg.Browser, log, hooks)
	if err != nil {
		log.Error(err, logx.TagError, "event", "failed to launch browser")
		os.Exit(1)
	}
	defer mgr.Close()

	// ── 4. Initialise the crawler strategy ──────────────────────────
	strategy := crawler.New(mgr, hooks)

	// ── 5. Initialise the result cache ──────────────────────────────
	store, err := cache.Open(cfg.Cache.BaseDirectory, cfg.Cache.MaxOpenConns)
	if err != nil {
		log.Error(err, logx.TagError, "event", "failed to open cache")
		os.Exit(1)
	}
	defer store.Close()

	// ── 6. Build the orchestrator ────────────────────────────────────
	var opts []orchestrate.Option
	if url := os.Getenv("SIPHON_WEBHOOK_URL"); url != "" {
		opts = append(opts, orchestrate.WithWebhook(url, os.Getenv("SIPHON_WEBHOOK_SECRET")))
	}
	orch := orchestrate.New(strategy, store, log, opts...)

	// ── 7. Set up router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(orch, store, cfg, startTime)

	// ── 8. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info(logx.TagComplete, "event", "HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, logx.TagError, "event", "HTTP server error")
			os.Exit(1)
		}
	}()

	// ── 9. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info(logx.TagComplete, "event", "shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, logx.TagError, "event", "HTTP server forced shutdown")
	} else {
		log.Info(logx.TagComplete, "event", "HTTP server drained gracefully")
	}

	// mgr.Close()/store.Close() run via defer.
	log.Info(logx.TagComplete, "event", "siphon stopped")
}
