// Command checkout-fields-server exposes the field registry and the order
// field store over the versioned REST API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-checkoutfields/internal/gateway"
	"github.com/goliatone/go-checkoutfields/internal/platform/config"
	"github.com/goliatone/go-checkoutfields/internal/platform/httpserver"
	"github.com/goliatone/go-checkoutfields/internal/platform/logger"
	"github.com/goliatone/go-checkoutfields/internal/platform/metrics"
	"github.com/goliatone/go-checkoutfields/internal/storage/postgres"
	"github.com/goliatone/go-checkoutfields/internal/storage/rediscache"
	"github.com/goliatone/go-checkoutfields/pkg/orderfields"
	"github.com/goliatone/go-checkoutfields/pkg/registry"
)

// headerCapabilities authorizes requests from the host's reverse proxy, which
// resolves the caller's permissions and forwards them in a header.
type headerCapabilities struct{}

func (headerCapabilities) Allow(r *http.Request, capability gateway.Capability) bool {
	for _, granted := range r.Header.Values("X-Checkout-Capability") {
		if granted == string(capability) {
			return true
		}
	}
	return false
}

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(logger.ParseLevel(cfg.Server.LogLevel))

	ctx := context.Background()

	var (
		configStore registry.ConfigStore
		orderStore  orderfields.OrderStore
	)
	if cfg.Storage.PostgresDSN != "" {
		db, err := postgres.Open(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		configStore = postgres.NewConfigStore(db)
		orderStore = postgres.NewOrderStore(db)
		log.Info("using postgres storage")
	} else {
		configStore = registry.NewMemoryStore(cfg.Fields.LegacyLabel)
		orderStore = orderfields.NewMemoryStore()
		log.Warn("no postgres DSN configured, using in-memory storage")
	}

	if cfg.Storage.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.Storage.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
		defer client.Close()
		configStore = rediscache.New(configStore, client, config.SchemaCacheTTL, log)
		log.Info("schema cache enabled")
	}

	m := metrics.New()
	registrySvc := registry.New(configStore)
	orderSvc := orderfields.New(registrySvc, orderStore, orderfields.WithObserver(m))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	handler := gateway.New(log, registrySvc, orderSvc, headerCapabilities{}, m)
	handler.Register(router)

	srv := httpserver.New(cfg.Server.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting checkout-fields-server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}
