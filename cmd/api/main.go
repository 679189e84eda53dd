package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/luxurystrandhaven/storefront-backend/api/controllers"
	"github.com/luxurystrandhaven/storefront-backend/api/routes"
	"github.com/luxurystrandhaven/storefront-backend/internal/cart"
	"github.com/luxurystrandhaven/storefront-backend/internal/catalog"
	"github.com/luxurystrandhaven/storefront-backend/internal/settings"
	"github.com/luxurystrandhaven/storefront-backend/pkg/cache"
	"github.com/luxurystrandhaven/storefront-backend/pkg/config"
	"github.com/luxurystrandhaven/storefront-backend/pkg/db"
	"github.com/luxurystrandhaven/storefront-backend/pkg/instance"
	"github.com/luxurystrandhaven/storefront-backend/pkg/logger"
	"github.com/luxurystrandhaven/storefront-backend/pkg/metrics"
	"github.com/luxurystrandhaven/storefront-backend/pkg/migrate"
	"github.com/luxurystrandhaven/storefront-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storefrontMetrics := metrics.NewStorefrontMetrics(reg)

	health := map[string]controllers.Pinger{"db": dbClient}

	var (
		redisClient *redis.Client
		store       cache.Store
		cartRepo    cart.CartRepository
	)
	if cfg.FeatureFlags.MemoryCache {
		memory := cache.NewMemoryStore()
		store = memory
		cartRepo = cart.NewStoreRepository(memory)
		logg.Warn(ctx, "using in-process cache and cart store")
	} else {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		store = cache.NewRedisStore(redisClient)
		cartRepo = cart.NewRedisRepository(redisClient)
		health["redis"] = redisClient
	}

	productCache, err := cache.New(store, logg, storefrontMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create cache", err)
		os.Exit(1)
	}

	siteSettings, err := settings.Load(ctx, settings.NewRepository(dbClient.DB()), cfg.Settings.Overrides)
	if err != nil {
		logg.Error(ctx, "failed to load site settings", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(
		catalog.NewRepository(dbClient.DB()),
		productCache,
		cfg.Catalog,
		siteSettings,
		logg,
		storefrontMetrics,
	)
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, cfg.Cart.TTL, siteSettings)
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			Health:         health,
			Observer:       storefrontMetrics,
			MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			Catalog:        catalogService,
			Cart:           cartService,
			Settings:       siteSettings,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			closeResources(ctx, logg, dbClient, redisClient)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	closeResources(ctx, logg, dbClient, redisClient)
}

func closeResources(ctx context.Context, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) {
	err := dbClient.Close()
	if redisClient != nil {
		err = multierr.Append(err, redisClient.Close())
	}
	if err != nil {
		logg.Error(ctx, "error closing resources", err)
	}
}
