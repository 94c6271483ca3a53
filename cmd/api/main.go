package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"notify-pipeline/internal/channel"
	"notify-pipeline/internal/cleanup"
	"notify-pipeline/internal/config"
	"notify-pipeline/internal/dispatch"
	"notify-pipeline/internal/events"
	"notify-pipeline/internal/export"
	"notify-pipeline/internal/handler"
	"notify-pipeline/internal/ingest"
	redisbus "notify-pipeline/internal/redis"
	"notify-pipeline/internal/repository"
	"notify-pipeline/internal/server"
	"notify-pipeline/internal/services"
	"notify-pipeline/pkg/database"
	"notify-pipeline/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	mode := logger.DevelopmentMode
	if cfg.Server.Environment == "production" {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)
	defer l.Logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage
	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		l.Errorf("Failed to connect to database: %v", err)
		return
	}
	defer pool.Close()

	logRepo := repository.NewLogRepository(pool)
	otpRepo := repository.NewOTPRepository(pool)

	// Bus
	redisClient := redisbus.NewClient(redisbus.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisbus.Ping(ctx, redisClient); err != nil {
		l.Errorf("Failed to connect to redis: %v", err)
		return
	}

	publisher := redisbus.NewPublisher(redisClient)
	statusPublisher := events.NewStatusPublisher(publisher, cfg.Topics.Logging)

	// Channel senders
	smsSender := channel.NewTwilioSender(cfg.Twilio)
	emailSender, err := channel.NewSESSender(ctx, cfg.Email)
	if err != nil {
		l.Errorf("Failed to build email sender: %v", err)
		return
	}

	// Consumers
	flushInterval := time.Duration(cfg.Consumer.FlushInterval) * time.Millisecond

	dispatcher := dispatch.New(smsSender, emailSender, statusPublisher, l)
	dispatchConsumer := dispatch.NewConsumer(dispatcher, l)
	dispatchListener := events.NewListener(
		redisbus.NewSubscriber(redisClient),
		cfg.Topics.OTPDelivery,
		events.NewBatcher(cfg.Consumer.BatchSize, flushInterval, dispatchConsumer),
		l,
	)
	dispatchListener.Start(ctx)

	ingestConsumer := ingest.NewConsumer(logRepo, l)
	ingestListener := events.NewListener(
		redisbus.NewSubscriber(redisClient),
		cfg.Topics.Logging,
		events.NewBatcher(cfg.Consumer.BatchSize, flushInterval, ingestConsumer),
		l,
	)
	ingestListener.Start(ctx)

	// Maintenance
	cleaner := cleanup.NewCleaner(otpRepo, statusPublisher, l)
	cleanup.NewRunner(cleaner, time.Hour).Start(ctx)

	// Producer API
	otpService := services.NewOTPService(otpRepo, publisher, statusPublisher, cfg.Topics.OTPDelivery, l)

	var exporter *export.Exporter
	if cfg.Export.Bucket != "" {
		exporter, err = export.NewExporter(ctx, cfg.Export, logRepo, l)
		if err != nil {
			l.Errorf("Failed to build exporter: %v", err)
			return
		}
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		OTP: handler.NewOTPHandler(otpService),
		Log: handler.NewLogHandler(logRepo, exporter),
		ETA: handler.NewETAHandler(),
	}, pool)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		l.Infof("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			l.Errorf("http server error: %v", err)
		}
	}

	// Let in-flight records finish their current work before exiting.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Errorf("http server shutdown: %v", err)
	}
}
