package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"video_feed/internal/config"
	"video_feed/internal/domain"
	"video_feed/internal/output"
	"video_feed/internal/publisher"
	"video_feed/internal/scheduler"
	"video_feed/internal/service"
	"video_feed/internal/source/youtube"
	"video_feed/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("feed generation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	ytSource, err := youtube.New(ctx, youtube.Config{
		APIKey:  cfg.YouTube.APIKey,
		BaseURL: cfg.YouTube.BaseURL,
		Timeout: cfg.YouTube.Timeout,
	}, logger)
	if err != nil {
		return err
	}

	var snapshots service.SnapshotStore
	if cfg.Database.Enabled() {
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			return err
		}
		defer db.Close()
		logger.Info("connected to database")

		snapshots = postgres.NewSnapshotStore(db)
	}

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled() {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()

		pub = rabbitMQ
	}

	feedService := service.NewFeedService(
		ytSource,
		output.NewFileWriter(cfg.Output.Path),
		snapshots,
		pub,
		domain.ChannelID(cfg.YouTube.ChannelID),
		logger,
		cfg.Feed,
	)

	sched := scheduler.NewScheduler(feedService, cfg.Schedule.Interval, cfg.Schedule.Timeout, logger)

	if cfg.Schedule.Interval > 0 {
		logger.Info("starting video feed in watch mode",
			"source", ytSource.Name(),
			"interval", cfg.Schedule.Interval,
			"output", cfg.Output.Path,
		)
		return sched.Start(ctx)
	}

	stats, err := sched.RunOnce(ctx)
	if err != nil {
		return err
	}
	if !stats.Written {
		logger.Warn("feed file left unchanged", "output", cfg.Output.Path)
	}
	return nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
