package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coachevelyne/coachevelyne-api/config"
	"github.com/coachevelyne/coachevelyne-api/internal/handlers"
	"github.com/coachevelyne/coachevelyne-api/internal/mailer"
	"github.com/coachevelyne/coachevelyne-api/internal/middleware"
	"github.com/coachevelyne/coachevelyne-api/internal/ratelimit"
	"github.com/coachevelyne/coachevelyne-api/internal/services"
	"github.com/coachevelyne/coachevelyne-api/internal/validation"
	"github.com/coachevelyne/coachevelyne-api/pkg/logger"
	"github.com/coachevelyne/coachevelyne-api/pkg/metrics"
	"github.com/coachevelyne/coachevelyne-api/pkg/profiling"
	"github.com/coachevelyne/coachevelyne-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// Missing SMTP credentials abort here, before anything listens
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Coach Evelyne API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	tracerShutdown, err := tracing.InitTracer(cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.Start(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer stopProfiler()

	stopMetrics := make(chan struct{})
	defer close(stopMetrics)
	metrics.RecordInfrastructureMetrics(stopMetrics)

	// The SMTP transport is built on the first submission and shared afterwards
	transports := mailer.NewLazyTransport(mailer.SMTPFactory(cfg.SMTP))
	dispatcher := mailer.NewDispatcher(transports, mailer.Envelope{
		Sender:    cfg.SMTP.User,
		Recipient: cfg.SMTP.Recipient,
		Subject:   mailer.DefaultSubject,
	}, cfg.Site)

	contactService := services.NewContactService(validation.New(), dispatcher)

	contactHandler := handlers.NewContactHandler(contactService)
	healthHandler := handlers.NewHealthHandler()

	contactStore := ratelimit.NewStore(ratelimit.WithSweepThreshold(cfg.RateLimit.SweepThreshold))
	opsRateLimiter := middleware.NewRateLimiter("ops", 5, 10) // 5 req/sec, burst of 10
	defer opsRateLimiter.Stop()

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}))

	handlers.RegisterRoutes(router.Group("/api"), handlers.Routes{
		Contact:      contactHandler,
		Health:       healthHandler,
		ContactStore: contactStore,
		ContactPolicy: ratelimit.Policy{
			Limit:  cfg.RateLimit.ContactLimit,
			Window: cfg.RateLimit.ContactWindow,
		},
		Metrics:    promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		OpsLimiter: opsRateLimiter,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second, // covers a slow SMTP round trip
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
