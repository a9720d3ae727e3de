package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BS-European-Championship/ta-relay/internal/adapters/coordinator"
	"github.com/BS-European-Championship/ta-relay/internal/adapters/http/api"
	"github.com/BS-European-Championship/ta-relay/internal/adapters/mq/queue"
	"github.com/BS-European-Championship/ta-relay/internal/adapters/ws"
	"github.com/BS-European-Championship/ta-relay/internal/config"
	"github.com/BS-European-Championship/ta-relay/internal/events"
	"github.com/BS-European-Championship/ta-relay/internal/relay"
	"github.com/BS-European-Championship/ta-relay/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	q := queue.NewInMemoryQueue(queue.WithCapacity(cfg.EventQueueSize))

	forwarder := ws.NewForwarder(
		ws.WithWriteTimeout(time.Duration(cfg.BroadcastWriteTimeoutMS)*time.Millisecond),
		ws.WithLogger(log.Named("forwarder")),
	)

	bus := events.NewBus(log.Named("events"))
	defer func() {
		if err := bus.Close(); err != nil {
			log.Warn(ctx, "event bus close failed", logger.Error(err))
		}
	}()

	coord := coordinator.New(cfg.CoordinatorURL, cfg.RelayName, q,
		coordinator.WithLogger(log.Named("coordinator")))
	if err := coord.Connect(ctx); err != nil {
		os.Stderr.WriteString("failed to connect to coordinator: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := coord.Close(); err != nil {
			log.Warn(ctx, "coordinator close failed", logger.Error(err))
		}
	}()

	engine := relay.New(coord, forwarder, bus, q, relay.WithLogger(log.Named("engine")))
	go engine.Run(ctx)

	// Reconnection is out of scope: a dropped coordinator link stops the
	// relay so supervision can restart it.
	go func() {
		if err := coord.Listen(ctx); err != nil && ctx.Err() == nil {
			log.Error(ctx, "coordinator link closed", logger.Error(err))
			stop()
		}
	}()

	router := chi.NewRouter()
	apiServer := api.NewServer(engine, forwarder)
	apiServer.Register(ctx, router)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down relay...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	// Stop feeding the engine and wait for it to drain.
	_ = q.Close()
	select {
	case <-engine.Done():
	case <-shutdownCtx.Done():
		log.Warn(ctx, "engine shutdown timed out")
	}

	log.Info(ctx, "relay stopped")
}
