package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"teacher-service/internal/config"
	"teacher-service/internal/db"
	"teacher-service/internal/health"
	"teacher-service/internal/kafka"
	"teacher-service/internal/logger"
	"teacher-service/internal/messaging"
	"teacher-service/internal/metrics"
	"teacher-service/internal/middleware"
	"teacher-service/internal/teacher"
	"teacher-service/internal/telemetry"
	"teacher-service/internal/web"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type eventProducer interface {
	teacher.EventSender
	Close() error
}

type App struct {
	config       *config.Config
	router       chi.Router
	server       *http.Server
	grpcServer   *grpc.Server
	healthServer *grpchealth.Server
	database     *bun.DB
	telemetry    *telemetry.Telemetry
	events       eventProducer
	logger       *slog.Logger
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig builds the application from an already loaded configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version, cfg.Env)

	// Set as default logger so slog.Info() uses the same handler
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application", "git_commit", GitCommit, "build_time", BuildTime)

	tel, err := telemetry.Init(ctx, cfg.Telemetry, ServiceName, Version, slogLogger)
	if err != nil {
		return nil, err
	}

	database, err := db.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.RunMigrations(ctx, database, teacher.CreateSchema); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := tel.Metrics.Database.RegisterDB(database.DB, otel.Meter(ServiceName)); err != nil {
		slogLogger.Warn("failed to register database pool metrics", "error", err)
	}

	app := &App{
		config:    cfg,
		router:    chi.NewRouter(),
		database:  database,
		telemetry: tel,
		logger:    slogLogger,
	}

	app.events = newEventProducer(cfg.Events, slogLogger, tel.Metrics)

	validator := teacher.NewValidator(teacher.WithSalaryMax(cfg.Validation.SalaryMax))
	repo := teacher.NewRepository(database, tel.Metrics)

	var events teacher.EventSender
	if app.events != nil {
		events = app.events
	}
	teacherService := teacher.NewService(repo, validator, slogLogger, tel.Metrics, events)

	pages, err := web.NewPages(teacherService, slogLogger)
	if err != nil {
		database.Close()
		return nil, err
	}

	app.router.Use(chimiddleware.RequestID)
	app.router.Use(chimiddleware.Recoverer)
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	health.NewHandler(database, slogLogger).RegisterRoutes(app.router)

	teacherHandler := teacher.NewHandler(teacherService, slogLogger)
	app.router.Route("/api", func(r chi.Router) {
		teacherHandler.RegisterRoutes(r)
	})
	pages.RegisterRoutes(app.router)
	app.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/teachers", http.StatusFound)
	})

	if cfg.Grpc.Port != "" {
		app.grpcServer = grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
		app.healthServer = grpchealth.NewServer()
		grpc_health_v1.RegisterHealthServer(app.grpcServer, app.healthServer)
		app.healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	}

	slogLogger.Info("application initialized successfully")

	return app, nil
}

// newEventProducer connects the configured event transport. A transport that
// cannot be reached disables publishing instead of failing startup.
func newEventProducer(cfg config.EventsConfig, logger *slog.Logger, m *metrics.Metrics) eventProducer {
	switch cfg.Driver {
	case "nats":
		producer, err := messaging.NewProducer(cfg.URL, cfg.Subject, logger, m)
		if err != nil {
			logger.Warn("failed to initialize NATS producer, events disabled", "error", err)
			return nil
		}
		return producer
	case "kafka":
		producer, err := kafka.NewProducer(cfg.Brokers, cfg.Topic, logger, m)
		if err != nil {
			logger.Warn("failed to initialize kafka producer, events disabled", "error", err)
			return nil
		}
		return producer
	case "", "none":
		return nil
	default:
		logger.Warn("unknown events driver, events disabled", "driver", cfg.Driver)
		return nil
	}
}

// Handler exposes the HTTP router.
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) Run() error {
	if a.grpcServer != nil {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%s", a.config.Grpc.Port))
		if err != nil {
			return fmt.Errorf("failed to listen on gRPC port: %w", err)
		}

		go func() {
			a.logger.Info("gRPC server starting", "port", a.config.Grpc.Port)
			if err := a.grpcServer.Serve(lis); err != nil {
				a.logger.Error("gRPC server error", "error", err)
			}
		}()
	}

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server: %w", err))
		}
	}

	if a.grpcServer != nil {
		a.healthServer.Shutdown()
		a.grpcServer.GracefulStop()
	}

	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Error("event producer close error", "error", err)
		}
	}

	if err := a.telemetry.Shutdown(ctx, a.logger); err != nil {
		errs = append(errs, err)
	}

	db.Close(a.database)

	return errors.Join(errs...)
}
