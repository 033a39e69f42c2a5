package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/shoplane/cartsync-backend/api/routes"
	"github.com/shoplane/cartsync-backend/internal/cart"
	"github.com/shoplane/cartsync-backend/internal/upstream"
	"github.com/shoplane/cartsync-backend/pkg/config"
	"github.com/shoplane/cartsync-backend/pkg/db"
	"github.com/shoplane/cartsync-backend/pkg/enums"
	"github.com/shoplane/cartsync-backend/pkg/logger"
	"github.com/shoplane/cartsync-backend/pkg/metrics"
	"github.com/shoplane/cartsync-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cart-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cart-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	var dbClient *db.Client
	var guestStore cart.GuestStore
	switch cfg.GuestCart.Kind() {
	case enums.GuestStoreDB:
		if cfg.FeatureFlags.UseSQLite {
			cfg.DB.Driver = "sqlite"
		}
		dbClient, err = db.New(context.Background(), cfg.DB, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap database", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()

		store, err := cart.NewGormGuestStore(dbClient.DB())
		if err != nil {
			logg.Error(context.Background(), "failed to create guest store", err)
			os.Exit(1)
		}
		if cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate {
			if err := store.AutoMigrate(); err != nil {
				logg.Error(context.Background(), "failed to migrate guest carts", err)
				os.Exit(1)
			}
		}
		guestStore = store
	default:
		store, err := cart.NewRedisGuestStore(redisClient, cfg.GuestCart.TTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create guest store", err)
			os.Exit(1)
		}
		guestStore = store
	}

	gateway, err := upstream.NewClient(cfg.Upstream)
	if err != nil {
		logg.Error(context.Background(), "failed to create upstream client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	cartMetrics := metrics.NewCartMetrics(registry)

	cartService, err := cart.NewService(gateway, guestStore, cartMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":         cfg.App.Env,
		"addr":        addr,
		"guest_store": string(cfg.GuestCart.Kind()),
	})
	logg.Info(ctx, "starting cart api server")

	var dbPinger db.Pinger
	if dbClient != nil {
		dbPinger = dbClient
	}

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, dbPinger, redisClient, cartService, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "cart api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
