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

	"github.com/angelmondragon/marketplace-backend/api/controllers"
	"github.com/angelmondragon/marketplace-backend/api/routes"
	"github.com/angelmondragon/marketplace-backend/internal/address"
	"github.com/angelmondragon/marketplace-backend/internal/auth"
	"github.com/angelmondragon/marketplace-backend/internal/cart"
	"github.com/angelmondragon/marketplace-backend/internal/categories"
	"github.com/angelmondragon/marketplace-backend/internal/checkout"
	"github.com/angelmondragon/marketplace-backend/internal/dashboard"
	"github.com/angelmondragon/marketplace-backend/internal/flash"
	"github.com/angelmondragon/marketplace-backend/internal/inventory"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/internal/payments"
	product "github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/internal/sellers"
	"github.com/angelmondragon/marketplace-backend/internal/users"
	"github.com/angelmondragon/marketplace-backend/pkg/auth/session"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
	"github.com/angelmondragon/marketplace-backend/pkg/migrate"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
	"github.com/angelmondragon/marketplace-backend/pkg/redis"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	requireResource(ctx, logg, "database", err)

	requireResource(ctx, logg, "dev migrations", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)

	defer func() {
		if err := multierr.Combine(dbClient.Close(), redisClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(ctx, logg, "session manager", err)

	flashStore, err := flash.NewRedisStore(redisClient, cfg.Session.FlashTTL)
	requireResource(ctx, logg, "flash store", err)

	rates, err := cfg.Checkout.Rates()
	requireResource(ctx, logg, "checkout rates", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	conn := dbClient.DB()
	hasher := security.NewPasswordHasher(cfg.Password)
	emitter := outbox.NewService(outbox.NewRepository(conn), logg)

	userRepo := users.NewRepository(conn)
	addressRepo := address.NewRepository(conn)
	productRepo := product.NewRepository(conn)
	categoryRepo := categories.NewRepository(conn)
	inventoryRepo := inventory.NewRepository(conn)
	sellerRepo := sellers.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	ordersRepo := orders.NewRepository(conn)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		Hasher:         hasher,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	requireResource(ctx, logg, "auth service", err)

	addressService := address.NewService(dbClient, addressRepo)

	productService, err := product.NewService(dbClient, productRepo, inventoryRepo)
	requireResource(ctx, logg, "product service", err)

	cartService, err := cart.NewService(dbClient, cartRepo, productRepo, inventoryRepo, rates)
	requireResource(ctx, logg, "cart service", err)

	ordersService, err := orders.NewService(orders.ServiceParams{
		DB:      dbClient,
		Repo:    ordersRepo,
		Sellers: sellerRepo,
		Outbox:  emitter,
		Logger:  logg,
	})
	requireResource(ctx, logg, "orders service", err)

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		DB:        dbClient,
		Addresses: addressService,
		Orders:    ordersRepo,
		Reader:    checkout.NewCartReader(),
		Writer:    checkout.NewOrderWriter(ordersRepo, inventoryRepo, cfg.Checkout.OrderNumberPrefix),
		Clearer:   checkout.NewCartClearer(),
		Outbox:    emitter,
		Rates:     rates,
		Metrics:   metrics.NewCheckoutMetrics(registry),
		Logger:    logg,
	})
	requireResource(ctx, logg, "checkout service", err)

	paymentsService, err := payments.NewService(payments.ServiceParams{
		DB:      dbClient,
		Repo:    payments.NewRepository(conn),
		Orders:  ordersRepo,
		Gateway: payments.NewMockGateway(),
		Outbox:  emitter,
		Logger:  logg,
	})
	requireResource(ctx, logg, "payments service", err)

	dashboardService, err := dashboard.NewService(dashboard.Params{
		Orders:     ordersRepo,
		Addresses:  addressRepo,
		Products:   productRepo,
		Sellers:    sellerRepo,
		Users:      userRepo,
		Categories: categoryRepo,
		Inventory:  inventoryRepo,
	})
	requireResource(ctx, logg, "dashboard service", err)

	handler := routes.NewRouter(cfg, logg, routes.Services{
		Auth:       authService,
		Users:      users.NewService(userRepo),
		Addresses:  addressService,
		Products:   productService,
		Categories: categories.NewService(categoryRepo),
		Inventory:  inventory.NewService(conn, inventoryRepo),
		Sellers:    sellers.NewService(dbClient, sellerRepo, hasher),
		Cart:       cartService,
		Checkout:   checkoutService,
		Orders:     ordersService,
		Payments:   paymentsService,
		Dashboard:  dashboardService,
	}, routes.Deps{
		Pingers: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
		Sessions:    sessionManager,
		RateLimits:  redisClient,
		Idempotency: redisClient,
		Flash:       flashStore,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
		Gatherer:    registry,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			return
		}
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(logCtx, "graceful shutdown failed", err)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to initialize "+name, err)
	os.Exit(1)
}
