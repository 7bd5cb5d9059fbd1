package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aerodesk/aerodesk/internal/adapter/cached"
	"github.com/aerodesk/aerodesk/internal/adapter/canned"
	adhttp "github.com/aerodesk/aerodesk/internal/adapter/http"
	"github.com/aerodesk/aerodesk/internal/adapter/memory"
	adnats "github.com/aerodesk/aerodesk/internal/adapter/nats"
	adopenai "github.com/aerodesk/aerodesk/internal/adapter/openai"
	adotel "github.com/aerodesk/aerodesk/internal/adapter/otel"
	"github.com/aerodesk/aerodesk/internal/adapter/postgres"
	"github.com/aerodesk/aerodesk/internal/adapter/ristretto"
	"github.com/aerodesk/aerodesk/internal/adapter/ws"
	"github.com/aerodesk/aerodesk/internal/airline"
	"github.com/aerodesk/aerodesk/internal/config"
	"github.com/aerodesk/aerodesk/internal/domain/agent"
	"github.com/aerodesk/aerodesk/internal/logger"
	"github.com/aerodesk/aerodesk/internal/middleware"
	"github.com/aerodesk/aerodesk/internal/port/engine"
	"github.com/aerodesk/aerodesk/internal/port/messagequeue"
	"github.com/aerodesk/aerodesk/internal/port/store"
	"github.com/aerodesk/aerodesk/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	slog.SetDefault(log)
	defer logCloser.Close()

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"store", cfg.Store.Backend,
		"engine", cfg.Engine.Backend,
	)

	ctx := context.Background()

	// --- Telemetry ---
	if cfg.Otel.Enabled {
		shutdown, err := adotel.Setup(ctx, cfg.Logging.Service, cfg.Otel.Endpoint)
		if err != nil {
			return fmt.Errorf("otel: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}
	metrics, err := adotel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Routing graph ---
	registry, err := airline.NewRegistry()
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}

	// --- Conversation store ---
	convStore, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer cleanup()

	// --- NATS ---
	var queue messagequeue.Queue
	if cfg.NATS.Enabled {
		natsQueue, err := adnats.Connect(ctx, cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = natsQueue.Close() }()
		queue = natsQueue
	}

	// --- Services ---
	hub := ws.NewHub()
	eng := buildEngine(cfg, registry)
	profile := service.Profile{
		Refusal:    airline.RefusalMessage,
		NewContext: airline.NewContext,
	}
	turnSvc := service.NewTurnService(convStore, registry, eng, profile, hub, queue, metrics, log)
	directorySvc := service.NewDirectoryService(registry)

	// --- HTTP ---
	handlers := adhttp.NewHandlers(turnSvc, directorySvc, hub, log)

	r := chi.NewRouter()
	r.Use(adhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(adhttp.Logger)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	if cfg.Otel.Enabled {
		r.Use(adotel.HTTPMiddleware(cfg.Logging.Service))
	}

	r.Get("/health", healthHandler(cfg, hub))
	adhttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// buildStore assembles the configured conversation store, optionally
// wrapped in the read-through cache. The cleanup func releases pool and
// cache resources on shutdown.
func buildStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	var (
		inner   store.Store
		cleanup = func() {}
	)

	switch cfg.Store.Backend {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		slog.Info("postgres connected, migrations applied")
		inner = postgres.NewStore(pool)
		cleanup = pool.Close
	default:
		inner = memory.NewStore()
	}

	if !cfg.Store.Cached {
		return inner, cleanup, nil
	}

	cache, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("cache: %w", err)
	}
	poolCleanup := cleanup
	cleanup = func() {
		cache.Close()
		poolCleanup()
	}
	return cached.New(inner, cache, cfg.Cache.TTL), cleanup, nil
}

// buildEngine selects the execution engine backend.
func buildEngine(cfg *config.Config, registry *agent.Registry) engine.Engine {
	if cfg.Engine.Backend == "openai" {
		return adopenai.New(registry, func(o *adopenai.Options) {
			o.APIKey = cfg.Engine.APIKey
			o.BaseURL = cfg.Engine.BaseURL
			o.Model = cfg.Engine.Model
			o.Temperature = cfg.Engine.Temperature
			o.MaxCompletionTokens = cfg.Engine.MaxCompletionTokens
		})
	}
	return canned.New(registry)
}

// healthHandler reports service health and live websocket connections.
func healthHandler(cfg *config.Config, hub *ws.Hub) http.HandlerFunc {
	type healthStatus struct {
		Status      string `json:"status"`
		Store       string `json:"store"`
		Engine      string `json:"engine"`
		Connections int    `json:"wsConnections"`
	}

	return func(w http.ResponseWriter, _ *http.Request) {
		status := healthStatus{
			Status:      "ok",
			Store:       cfg.Store.Backend,
			Engine:      cfg.Engine.Backend,
			Connections: hub.ConnectionCount(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(status)
	}
}
