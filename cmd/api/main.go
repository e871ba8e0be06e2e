package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/camarize/camarize-backend/api/routes"
	"github.com/camarize/camarize-backend/internal/auth"
	"github.com/camarize/camarize-backend/internal/enclosures"
	"github.com/camarize/camarize-backend/internal/farms"
	"github.com/camarize/camarize-backend/internal/memberships"
	"github.com/camarize/camarize-backend/internal/requests"
	"github.com/camarize/camarize-backend/internal/sensors"
	"github.com/camarize/camarize-backend/internal/telemetry"
	"github.com/camarize/camarize-backend/internal/users"
	"github.com/camarize/camarize-backend/pkg/auth/session"
	"github.com/camarize/camarize-backend/pkg/config"
	"github.com/camarize/camarize-backend/pkg/db"
	"github.com/camarize/camarize-backend/pkg/logger"
	"github.com/camarize/camarize-backend/pkg/metrics"
	"github.com/camarize/camarize-backend/pkg/migrate"
	"github.com/camarize/camarize-backend/pkg/redis"
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
		Format:      cfg.App.LogFormat,
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	telemetryMetrics := metrics.NewTelemetryMetrics(registry)

	gdb := dbClient.DB()
	usersRepo := users.NewRepository(gdb)
	membershipsRepo := memberships.NewRepository(gdb)
	farmsRepo := farms.NewRepository(gdb)
	enclosuresRepo := enclosures.NewRepository(gdb)
	sensorsRepo := sensors.NewRepository(gdb)
	readingsRepo := telemetry.NewRepository(gdb)

	usersService, err := users.NewService(usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}
	farmsService, err := farms.NewService(farmsRepo, membershipsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create farms service", err)
		os.Exit(1)
	}
	enclosuresService, err := enclosures.NewService(enclosuresRepo, membershipsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create enclosures service", err)
		os.Exit(1)
	}
	sensorsService, err := sensors.NewService(sensorsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create sensors service", err)
		os.Exit(1)
	}
	telemetryService, err := telemetry.NewService(readingsRepo, enclosuresRepo, cfg.Telemetry, telemetryMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create telemetry service", err)
		os.Exit(1)
	}

	requestsService, err := requests.NewService(requests.ServiceParams{
		Repo:           requests.NewRepository(gdb),
		Tx:             dbClient,
		PasswordConfig: cfg.Password,
		Metrics:        telemetryMetrics,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create requests service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:        usersRepo,
		MembershipsRepo: membershipsRepo,
		SessionManager:  sessionManager,
		JWTConfig:       cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		Tx:             dbClient,
		Requests:       requestsService,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}
	masterRegisterService, err := auth.NewMasterRegisterService(auth.MasterRegisterServiceParams{
		Tx:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create master register service", err)
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
		Handler: routes.NewRouter(routes.Deps{
			Cfg:            cfg,
			Logg:           logg,
			DB:             dbClient,
			Redis:          redisClient,
			Gather:         registry,
			Sessions:       sessionManager,
			Auth:           authService,
			Register:       registerService,
			MasterRegister: masterRegisterService,
			Users:          usersService,
			Farms:          farmsService,
			Enclosures:     enclosuresService,
			Sensors:        sensorsService,
			Telemetry:      telemetryService,
			Requests:       requestsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
