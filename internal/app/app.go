package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ydaci/lillehelperplatform/internal/account"
	"github.com/ydaci/lillehelperplatform/internal/config"
	"github.com/ydaci/lillehelperplatform/internal/db"
	"github.com/ydaci/lillehelperplatform/internal/event"
	"github.com/ydaci/lillehelperplatform/internal/health"
	"github.com/ydaci/lillehelperplatform/internal/metrics"
	"github.com/ydaci/lillehelperplatform/internal/middleware"
	"github.com/ydaci/lillehelperplatform/internal/notification"
	"github.com/ydaci/lillehelperplatform/internal/teacher"
	"github.com/ydaci/lillehelperplatform/internal/telemetry"
	"github.com/ydaci/lillehelperplatform/internal/upload"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type App struct {
	config       *config.Config
	router       chi.Router
	server       *http.Server
	grpcServer   *grpc.Server
	healthServer *grpchealth.Server
	logger       *slog.Logger

	db        *bun.DB
	redis     *redis.Client
	notifier  *notification.Service
	telemetry *telemetry.Telemetry
}

// New wires every component from cfg. The database must be reachable.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	logger.InfoContext(ctx, "initializing application", "env", cfg.Env, "version", Version)

	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: logger,
	}

	tel, err := telemetry.Init(ctx, cfg.Telemetry, ServiceName, Version, logger)
	if err != nil {
		return nil, err
	}
	app.telemetry = tel

	meter := otel.Meter(ServiceName)
	appMetrics, err := metrics.New(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	database, err := db.New(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	app.db = database

	if err := appMetrics.DB().ObservePool(meter, database.DB); err != nil {
		logger.WarnContext(ctx, "failed to observe connection pool", "error", err)
	}
	if err := metrics.ObserveRuntime(meter); err != nil {
		logger.WarnContext(ctx, "failed to observe runtime", "error", err)
	}

	models := append(account.Models(), (*event.Event)(nil))
	if err := db.RunMigrations(ctx, database, models...); err != nil {
		app.closeResources(ctx)
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Listing.TimeZone)
	if err != nil {
		app.closeResources(ctx)
		return nil, fmt.Errorf("invalid listing time zone %q: %w", cfg.Listing.TimeZone, err)
	}

	producer, err := newProducer(cfg.Messaging, logger)
	if err != nil {
		logger.WarnContext(ctx, "failed to initialize notification producer", "driver", cfg.Messaging.Driver, "error", err)
		producer = nil
	}
	app.notifier = notification.NewService(producer, logger, notification.WithMetrics(appMetrics.Msg()))

	var directoryCache teacher.Cache
	if cfg.Redis.Addr != "" {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := app.redis.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.WarnContext(ctx, "redis unavailable, teacher directory cache disabled", "addr", cfg.Redis.Addr, "error", err)
			app.redis.Close()
			app.redis = nil
		} else {
			ttl := time.Duration(cfg.Redis.TeacherCacheTTLSeconds) * time.Second
			directoryCache = teacher.NewRedisCache(app.redis, ttl)
		}
	}

	uploads, err := upload.NewStore(cfg.Uploads.Dir, cfg.Uploads.MaxBytes)
	if err != nil {
		app.closeResources(ctx)
		return nil, err
	}

	accountRepo := account.NewRepository(database, appMetrics)
	teacherService := teacher.NewService(accountRepo, directoryCache, appMetrics, logger)
	accountService := account.NewService(accountRepo, cfg.Auth.BcryptCost, appMetrics, logger,
		account.WithNotifier(app.notifier),
		account.WithDirectory(teacherService),
	)
	eventService := event.NewService(event.NewRepository(database, appMetrics), loc, appMetrics, logger,
		event.WithNotifier(app.notifier),
	)

	app.router.Use(chimw.RequestID)
	app.router.Use(chimw.RealIP)
	app.router.Use(middleware.RequestLogger(logger))
	app.router.Use(chimw.Recoverer)
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	app.router.Use(middleware.Prometheus)

	health.NewHandler(database, logger).RegisterRoutes(app.router)
	app.router.Handle("/metrics", promhttp.Handler())

	app.router.Route("/api", func(r chi.Router) {
		account.NewHandler(accountService, logger).RegisterRoutes(r)
		event.NewHandler(eventService, logger).RegisterRoutes(r)
		teacher.NewHandler(teacherService, logger).RegisterRoutes(r)
		upload.NewHandler(uploads, logger).RegisterRoutes(r)
	})

	grpcMetrics, err := metrics.NewGrpcMetrics(meter)
	if err != nil {
		app.closeResources(ctx)
		return nil, fmt.Errorf("failed to create grpc metrics: %w", err)
	}
	app.grpcServer = grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(grpcMetrics.UnaryServerInterceptor()),
	)
	app.healthServer = grpchealth.NewServer()
	grpc_health_v1.RegisterHealthServer(app.grpcServer, app.healthServer)
	app.healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	app.healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	logger.InfoContext(ctx, "application initialized successfully")
	return app, nil
}

// Handler exposes the HTTP router, for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves HTTP and gRPC until one of them fails or Shutdown is called.
func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", a.config.Grpc.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on grpc port: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("gRPC server starting", "port", a.config.Grpc.Port)
		errCh <- a.grpcServer.Serve(lis)
	}()
	go func() {
		a.logger.Info("server starting", "port", a.config.Server.Port)
		if err := a.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	return <-errCh
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	if a.healthServer != nil {
		a.healthServer.Shutdown()
	}

	var errs []error
	if a.server != nil {
		errs = append(errs, a.server.Shutdown(ctx))
	}
	if a.grpcServer != nil {
		a.grpcServer.GracefulStop()
	}

	errs = append(errs, a.closeResources(ctx))
	return errors.Join(errs...)
}

func (a *App) closeResources(ctx context.Context) error {
	var errs []error
	if a.notifier != nil {
		errs = append(errs, a.notifier.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	db.Close(a.db)
	errs = append(errs, a.telemetry.Shutdown(ctx))
	return errors.Join(errs...)
}
