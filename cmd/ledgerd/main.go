package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elie009/utlityhub360-sub005/internal/application/usecase"
	"github.com/elie009/utlityhub360-sub005/internal/domain/service"
	"github.com/elie009/utlityhub360-sub005/internal/infrastructure/config"
	infraKafka "github.com/elie009/utlityhub360-sub005/internal/infrastructure/kafka"
	infraPG "github.com/elie009/utlityhub360-sub005/internal/infrastructure/postgres"
	kafkapkg "github.com/elie009/utlityhub360-sub005/pkg/kafka"
	"github.com/elie009/utlityhub360-sub005/pkg/observability"
	pgpkg "github.com/elie009/utlityhub360-sub005/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg := config.Load()
	cfg.Validate()

	// Initialize logger
	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})

	logger.Info("starting ledger-core",
		"http_port", cfg.HTTPPort,
		"penalty_interval", cfg.PenaltyInterval.String(),
	)

	// Initialize metrics
	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
		Port:        cfg.HTTPPort,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	// Initialize database
	pool, err := pgpkg.NewPool(ctx, pgpkg.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	dsn := pgpkg.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}.DSN()
	if err = pgpkg.RunMigrations(dsn, infraPG.MigrationsFS, "migrations"); err != nil {
		logger.Warn("migration warning", "error", err)
	}

	// Initialize Kafka producer
	producer, err := kafkapkg.NewProducer(kafkapkg.Config{
		Brokers:       cfg.Kafka.Brokers,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLEnabled,
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	})
	if err != nil {
		logger.Error("failed to create kafka producer", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	// Wire dependencies (DI via constructors)
	loanRepo := infraPG.NewLoanRepo(pool)
	penaltyRepo := infraPG.NewPenaltyRepo(pool)
	outboxRepo := infraPG.NewOutboxRepo(pool)
	publisher := infraKafka.NewEventPublisher(producer, cfg.Kafka.Topic, logger)
	relay := infraKafka.NewOutboxRelay(outboxRepo, producer, cfg.Kafka.Topic, cfg.OutboxInterval, cfg.OutboxBatchSize, logger)

	policy := config.NewPolicy(cfg.Policy)
	clock := config.UTCClock{}
	calculator := service.NewPenaltyCalculator(policy)

	penaltiesUC := usecase.NewEvaluatePenaltiesUseCase(loanRepo, penaltyRepo, calculator, publisher, clock)

	// HTTP server (health checks + metrics)
	mux := http.NewServeMux()
	mux.Handle("/metrics", metricsHandler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pgpkg.HealthCheck(r.Context(), pool); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Drain the transactional outbox into Kafka.
	go relay.Run(ctx)

	// Periodic penalty evaluation across all active loans.
	go func() {
		ticker := time.NewTicker(cfg.PenaltyInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				resp, err := penaltiesUC.Execute(ctx)
				if err != nil {
					logger.Error("penalty evaluation failed", "error", err)
					continue
				}
				logger.Info("penalty evaluation finished",
					"loans_evaluated", resp.LoansEvaluated,
					"penalties_created", resp.PenaltiesCreated,
				)
			}
		}
	}()

	// Wait for shutdown
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown
	if err := httpServer.Shutdown(context.Background()); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	logger.Info("ledger-core stopped")
}
