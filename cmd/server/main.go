package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ShivanshKaul/ai-task-backend/internal/config"
	"github.com/ShivanshKaul/ai-task-backend/internal/gemini"
	"github.com/ShivanshKaul/ai-task-backend/internal/httpapi"
	"github.com/ShivanshKaul/ai-task-backend/internal/logging"
	"github.com/ShivanshKaul/ai-task-backend/internal/store"
	"github.com/ShivanshKaul/ai-task-backend/internal/store/memory"
	"github.com/ShivanshKaul/ai-task-backend/internal/store/postgres"
	"github.com/ShivanshKaul/ai-task-backend/internal/store/redisstore"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "text", "info").Error(ctx, "invalid configuration", "err", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	var st store.Store
	var closers []func()

	if cfg.DatabaseURL != "" {
		pg, err := postgres.NewStore(cfg.DatabaseURL)
		if err != nil {
			fatal(ctx, log, "failed to init postgres store", err)
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			fatal(ctx, log, "failed to migrate postgres store", err)
		}
		st = pg
		closers = append(closers, pg.Close)
		log.Info(ctx, "using postgres store")
	} else {
		st = memory.NewStore()
		log.Info(ctx, "using memory store")
	}

	opts := []httpapi.Option{httpapi.WithLogger(log)}
	if cfg.RedisURL != "" {
		client, err := redisstore.NewClient(cfg.RedisURL)
		if err != nil {
			fatal(ctx, log, "failed to connect to redis", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		opts = append(opts, httpapi.WithTranscriptStore(redisstore.NewTranscriptStore(client, "")))
		log.Info(ctx, "using redis transcript store")
	}

	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	if cfg.GeminiAPIKey == "" {
		log.Warn(ctx, "GEMINI_API_KEY is not set; chat requests will fail upstream")
	}
	gen := gemini.NewClient(nil, cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey)

	srv, err := httpapi.NewServer(cfg, st, gen, opts...)
	if err != nil {
		fatal(ctx, log, "failed to build server", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "server listening", "addr", cfg.ListenAddr())
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info(ctx, "shutdown requested")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server error", "err", err)
		}
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	_ = httpServer.Shutdown(ctxShutdown)
}

func fatal(ctx context.Context, log logging.Logger, msg string, err error) {
	log.Error(ctx, msg, "err", err)
	os.Exit(1)
}
