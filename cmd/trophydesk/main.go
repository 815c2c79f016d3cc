package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/trophydesk/trophydesk/internal/app"
	"github.com/trophydesk/trophydesk/internal/auth"
	"github.com/trophydesk/trophydesk/internal/catalog"
	"github.com/trophydesk/trophydesk/internal/customers"
	"github.com/trophydesk/trophydesk/internal/designjobs"
	"github.com/trophydesk/trophydesk/internal/observability"
	"github.com/trophydesk/trophydesk/internal/orders"
	"github.com/trophydesk/trophydesk/internal/platform/cache"
	"github.com/trophydesk/trophydesk/internal/platform/db"
	"github.com/trophydesk/trophydesk/internal/quotation"
	"github.com/trophydesk/trophydesk/internal/quotation/export"
	"github.com/trophydesk/trophydesk/internal/shared"
	"github.com/trophydesk/trophydesk/jobs"
)

// customerDirectory adapts the customer service to the order intake
// port.
type customerDirectory struct {
	service *customers.Service
}

func (d customerDirectory) CustomerName(ctx context.Context, id int64) (string, error) {
	c, err := d.service.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return c.Name, nil
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	factoryCatalog := catalog.Default()
	if cfg.FactoryCatalogPath != "" {
		factoryCatalog, err = catalog.LoadFile(cfg.FactoryCatalogPath)
		if err != nil {
			logger.Error("load factory catalog", slog.Any("error", err), slog.String("path", cfg.FactoryCatalogPath))
			os.Exit(1)
		}
	}
	catalogCache := catalog.NewCache(redisClient, factoryCatalog, cfg.CatalogCacheTTL)

	auditLogger := shared.NewAuditLogger(pool)
	metrics := observability.NewMetrics()

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	authService := auth.NewService(auth.NewRepository(pool), auth.NewTokenStore(redisClient, cfg.TokenTTL))
	authHandler := auth.NewHandler(logger, authService)
	authMiddleware := auth.NewMiddleware(authService)

	quotationService := quotation.NewService(
		quotation.NewRepository(pool),
		quotation.NewSessionStore(),
		factoryCatalog,
		auditLogger,
		jobsClient,
		metrics,
	)
	quotationHandler := quotation.NewHandler(logger, quotationService, export.NewExporter())

	customersService := customers.NewService(customers.NewRepository(pool))
	customersHandler := customers.NewHandler(logger, customersService)

	ordersRepo := orders.NewRepository(pool)
	designJobsService := designjobs.NewService(designjobs.NewRepository(pool), ordersRepo, quotationService, auditLogger)
	designJobsHandler := designjobs.NewHandler(logger, designJobsService)

	ordersService := orders.NewService(ordersRepo, customerDirectory{service: customersService}, designJobsService, auditLogger)
	ordersHandler := orders.NewHandler(logger, ordersService)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		AuthHandler:       authHandler,
		AuthMiddleware:    authMiddleware,
		CatalogHandler:    catalog.NewHandler(logger, catalogCache),
		CustomersHandler:  customersHandler,
		OrdersHandler:     ordersHandler,
		DesignJobsHandler: designJobsHandler,
		QuotationHandler:  quotationHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
