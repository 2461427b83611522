package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sitecrm/sitecrm-backend/api/routes"
	authsvc "github.com/sitecrm/sitecrm-backend/internal/auth"
	"github.com/sitecrm/sitecrm-backend/internal/customfields"
	"github.com/sitecrm/sitecrm-backend/internal/entities"
	"github.com/sitecrm/sitecrm-backend/internal/forms"
	"github.com/sitecrm/sitecrm-backend/internal/products"
	"github.com/sitecrm/sitecrm-backend/internal/relationships"
	"github.com/sitecrm/sitecrm-backend/pkg/config"
	"github.com/sitecrm/sitecrm-backend/pkg/db"
	"github.com/sitecrm/sitecrm-backend/pkg/logger"
	"github.com/sitecrm/sitecrm-backend/pkg/metrics"
	"github.com/sitecrm/sitecrm-backend/pkg/migrate"
	"github.com/sitecrm/sitecrm-backend/pkg/redis"
)

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
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

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

	sweepMetrics := metrics.NewSweepMetrics(prometheus.DefaultRegisterer)

	entityRepo := entities.NewRepository(dbClient.DB())
	fieldRepo := customfields.NewRepository(dbClient.DB())
	formRepo := forms.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())

	authService := authsvc.NewService(cfg.Admin, cfg.JWT, logg)

	entityService, err := entities.NewService(entityRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create entity service", err)
		os.Exit(1)
	}

	relationshipService, err := relationships.NewService(entityRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create relationship service", err)
		os.Exit(1)
	}

	fieldService, err := customfields.NewService(fieldRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create custom field service", err)
		os.Exit(1)
	}

	formService, err := forms.NewService(formRepo, fieldRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create form service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(productRepo, formRepo, fieldRepo, logg, sweepMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			authService,
			entityService,
			relationshipService,
			fieldService,
			formService,
			productService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
