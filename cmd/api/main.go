package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/andeshealth/ipsalud/internal/api/router"
	"github.com/andeshealth/ipsalud/internal/citas"
	appconfig "github.com/andeshealth/ipsalud/internal/config"
	"github.com/andeshealth/ipsalud/internal/cups"
	"github.com/andeshealth/ipsalud/internal/events"
	"github.com/andeshealth/ipsalud/internal/historias"
	"github.com/andeshealth/ipsalud/internal/notify"
	"github.com/andeshealth/ipsalud/internal/observability/metrics"
	"github.com/andeshealth/ipsalud/internal/pacientes"
	"github.com/andeshealth/ipsalud/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting ipsalud API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to UTC", "timezone", cfg.Timezone, "error", err)
		loc = time.UTC
	}

	// Metrics registry
	metricsHandler, citasMetrics := setupMetrics()

	// Initialize repositories. Without a DATABASE_URL the API runs fully
	// in memory, which is how local development works.
	var (
		citasRepo        citas.Repository
		pacientesRepo    pacientes.Repository
		historiasHandler *historias.Handler
		recorder         citas.EventRecorder
		outboxStore      *events.OutboxStore
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("database not reachable", "error", err)
			os.Exit(1)
		}

		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open sql db", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()

		citasRepo = citas.NewPostgresRepository(pool)
		pacientesRepo = pacientes.NewPostgresRepository(pool)
		historiasHandler = historias.NewHandler(historias.NewStore(db), logger)
		outboxStore = events.NewOutboxStore(pool)
		recorder = outboxStore
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		citasRepo = citas.NewInMemoryRepository()
		pacientesRepo = pacientes.NewInMemoryRepository()
	}

	// Redis backs the CUPS catalog cache. Missing redis degrades to the
	// seed catalog, so a failed ping is not fatal.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisOptions := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(redisOptions)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis not available, CUPS cache disabled", "error", err)
			redisClient = nil
		}
	}
	cupsStore := cups.NewStore(redisClient)

	// Initialize services and handlers
	citasService := citas.NewService(citas.ServiceConfig{
		Repo:      citasRepo,
		Directory: pacientes.NewDirectory(pacientesRepo),
		Catalogo:  cupsStore,
		Recorder:  recorder,
		Metrics:   citasMetrics,
		Logger:    logger,
		Location:  loc,
	})
	citasHandler := citas.NewHandler(citasService, logger).WithDefaultLimit(cfg.CitasPageSize)
	pacientesHandler := pacientes.NewHandler(pacientesRepo, logger)
	cupsHandler := cups.NewHandler(cupsStore, logger)

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		CitasHandler:       citasHandler,
		PacientesHandler:   pacientesHandler,
		HistoriasHandler:   historiasHandler,
		CupsHandler:        cupsHandler,
		MetricsHandler:     metricsHandler,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	// Outbox deliverer pushes transition notifications by email.
	if outboxStore != nil {
		var sender notify.EmailSender
		if sg := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sg != nil {
			sender = sg
		} else {
			sender = notify.NewStubEmailSender(logger)
		}
		deliverer := events.NewDeliverer(outboxStore, notify.NewTransitionNotice(sender, cfg.NotifyRecipient, logger), logger).
			WithBatchSize(int32(cfg.OutboxBatchSize)).
			WithInterval(cfg.OutboxPollInterval)
		go deliverer.Start(ctx)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics builds the dedicated Prometheus registry and the handler
// that exports it on /metrics.
func setupMetrics() (http.Handler, *metrics.CitasMetrics) {
	registry := prometheus.NewRegistry()
	citasMetrics := metrics.NewCitasMetrics(registry)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), citasMetrics
}
