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
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-bff/api/routes"
	"github.com/angelmondragon/storefront-bff/internal/account"
	"github.com/angelmondragon/storefront-bff/internal/auth"
	"github.com/angelmondragon/storefront-bff/internal/cart"
	"github.com/angelmondragon/storefront-bff/internal/catalog"
	"github.com/angelmondragon/storefront-bff/internal/demousers"
	"github.com/angelmondragon/storefront-bff/internal/orders"
	"github.com/angelmondragon/storefront-bff/internal/wishlist"
	"github.com/angelmondragon/storefront-bff/pkg/auth/session"
	"github.com/angelmondragon/storefront-bff/pkg/config"
	"github.com/angelmondragon/storefront-bff/pkg/instance"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/metrics"
	"github.com/angelmondragon/storefront-bff/pkg/redis"
	"github.com/angelmondragon/storefront-bff/pkg/upstream"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-bff"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-bff",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	client, err := upstream.NewClient(
		cfg.Upstream.BaseURL,
		upstream.WithTimeout(cfg.Upstream.Timeout),
		upstream.WithRecorder(m),
		upstream.WithLogger(logg),
	)
	if err != nil {
		return err
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Upstream: client,
		Cache:    redisClient,
		CacheTTL: cfg.Catalog.CacheTTL,
		Logger:   logg,
	})
	if err != nil {
		return err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Upstream:       client,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		Logger:         logg,
		Metrics:        m,
	})
	if err != nil {
		return err
	}

	accountService, err := account.NewService(account.ServiceParams{
		Upstream: client,
		Sessions: sessionManager,
		Logger:   logg,
	})
	if err != nil {
		return err
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Upstream:       client,
		Logger:         logg,
		DebounceWindow: cfg.Cart.DebounceWindow,
		Observer:       m,
	})
	if err != nil {
		return err
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Upstream:          client,
		Logger:            logg,
		LookupConcurrency: cfg.Wishlist.LookupConcurrency,
	})
	if err != nil {
		return err
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Upstream:  client,
		ReturnURL: cfg.Checkout.ReturnURL,
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	var demoUsers *demousers.Store
	if !cfg.App.IsProd() {
		demoUsers = demousers.NewStore()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"upstream": cfg.Upstream.BaseURL,
		"instance": instance.GetID(),
	})
	logg.Info(logCtx, "starting api server")

	router := routes.NewRouter(cfg, logg, redisClient, sessionManager, registry, m, routes.Services{
		Catalog:   catalogService,
		Auth:      authService,
		Account:   accountService,
		Cart:      cartService,
		Wishlist:  wishlistService,
		Orders:    ordersService,
		DemoUsers: demoUsers,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return multierr.Append(err, cartService.Close(context.Background()))
		}
		return nil
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// drain in-flight requests before flushing pending quantity edits
	return multierr.Combine(
		server.Shutdown(shutdownCtx),
		cartService.Close(shutdownCtx),
	)
}
