package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/driftline-systems/s3pulse/internal/config"
	"github.com/driftline-systems/s3pulse/internal/dlq"
	"github.com/driftline-systems/s3pulse/internal/handlers"
	"github.com/driftline-systems/s3pulse/internal/logging"
	"github.com/driftline-systems/s3pulse/internal/normalizer"
	"github.com/driftline-systems/s3pulse/internal/notifier"
	"github.com/driftline-systems/s3pulse/internal/ratelimit"
	"github.com/driftline-systems/s3pulse/internal/scheduler"
	"github.com/driftline-systems/s3pulse/internal/server"
	"github.com/driftline-systems/s3pulse/internal/service"
	"github.com/driftline-systems/s3pulse/internal/store"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("s3pulse"))
	logging.SetDefault(logger)

	slog.Info("Starting s3pulse service",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("log_format", cfg.Logging.Format),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}
	slog.Info("Store configured",
		slog.String("table", cfg.Dynamo.Table),
		slog.String("created_date_index", cfg.Dynamo.CreatedDateIndex),
	)

	ctx := context.Background()

	// Initialize rate limiter
	var rateLimiter ratelimit.RateLimiter
	if cfg.Redis.Enabled && cfg.Ingestion.RateLimitEnabled {
		limiter, err := ratelimit.NewRedisRateLimiter(
			cfg.Redis.URL,
			cfg.Ingestion.RateLimitRequests,
			cfg.Ingestion.RateLimitWindow,
		)
		if err != nil {
			log.Printf("WARNING: Failed to initialize Redis rate limiter: %v", err)
			log.Println("Continuing without rate limiting")
			rateLimiter = &ratelimit.NoOpRateLimiter{}
		} else {
			rateLimiter = limiter
			log.Printf("Rate limiting enabled: %d requests per %s", cfg.Ingestion.RateLimitRequests, cfg.Ingestion.RateLimitWindow)
		}
	} else {
		rateLimiter = &ratelimit.NoOpRateLimiter{}
		log.Println("Rate limiting disabled")
	}
	defer rateLimiter.Close()

	// Initialize Dead Letter Queue
	var dlqWriter dlq.Writer
	if cfg.DLQ.Enabled {
		jsDLQ, err := dlq.NewJetStreamQueue(ctx, cfg.DLQ.NatsURL)
		if err != nil {
			log.Fatalf("Failed to initialize JetStream DLQ: %v", err)
		}
		dlqWriter = jsDLQ
		defer jsDLQ.Close()
		log.Printf("Dead Letter Queue enabled (nats: %s)", cfg.DLQ.NatsURL)
	} else {
		log.Println("Dead Letter Queue disabled")
	}

	// Initialize store client
	storeClient, err := store.NewDynamoClient(ctx, store.Config{
		Table:            cfg.Dynamo.Table,
		CreatedDateIndex: cfg.Dynamo.CreatedDateIndex,
		Region:           cfg.AWS.Region,
		Endpoint:         cfg.AWS.Endpoint,
	})
	if err != nil {
		log.Fatalf("Failed to create store client: %v", err)
	}

	// Initialize outbound channel; fall back to log delivery when no topic
	// is configured so reports stay observable in development.
	var channel notifier.Channel
	if cfg.SNS.TopicARN != "" {
		snsChannel, err := notifier.NewSNSChannel(ctx, notifier.SNSConfig{
			TopicARN: cfg.SNS.TopicARN,
			Region:   cfg.AWS.Region,
			Endpoint: cfg.AWS.Endpoint,
		})
		if err != nil {
			log.Fatalf("Failed to create SNS channel: %v", err)
		}
		channel = snsChannel
	} else {
		log.Println("WARNING: no SNS topic configured, reports go to the log")
		channel = notifier.NewLogChannel(log.Printf)
	}

	// Initialize pipelines
	ingestService := service.NewIngestService(normalizer.New(), storeClient, dlqWriter)
	reportService := service.NewReportService(storeClient, channel)

	// Initialize report scheduler
	var reportScheduler *scheduler.Scheduler
	if cfg.Report.ScheduleEnabled {
		reportScheduler = scheduler.New(reportService, scheduler.Config{
			CheckInterval: cfg.Report.CheckInterval,
			HourUTC:       cfg.Report.HourUTC,
		})
		if err := reportScheduler.Start(ctx); err != nil {
			log.Fatalf("Failed to start report scheduler: %v", err)
		}
	} else {
		log.Println("Report scheduler disabled")
	}

	// Initialize HTTP surface
	handler := handlers.New(ingestService, reportService, rateLimiter, logger)
	router := server.NewRouter(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("s3pulse service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if reportScheduler != nil {
		if err := reportScheduler.Stop(); err != nil {
			log.Printf("WARNING: scheduler stop: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
