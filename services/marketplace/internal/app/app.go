package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classifieds/pkg/cache"
	"classifieds/pkg/config"
	"classifieds/pkg/database"
	"classifieds/pkg/logger"
	"classifieds/pkg/mediastore"
	"classifieds/pkg/queue"
	"classifieds/pkg/s3"
	"classifieds/pkg/watermark"
	"classifieds/services/marketplace/internal/repo"
	"classifieds/services/marketplace/internal/repo/document"
	"classifieds/services/marketplace/internal/repo/persistent"
	"classifieds/services/marketplace/internal/usecase"
)

// workerDrainTimeout bounds how long shutdown waits for running watermark
// jobs before cancelling them. Cancelled jobs leave the original file.
const workerDrainTimeout = 30 * time.Second

type jobQueue interface {
	queue.Publisher
	queue.Consumer
}

func Run(cfg *config.Config, log *logger.Logger) {
	ctx := context.Background()

	repos, closeStore, err := openRepositories(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to open storage: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		panic(err)
	}
	if redisClient == nil {
		log.Info("Redis not configured; rate limiting, stats cache and cross-instance push are off")
	}

	store, err := mediastore.NewFS(mediastore.Config{
		BaseDir:   cfg.UploadsDir,
		URLPrefix: cfg.PublicBaseURL + "/uploads",
	})
	if err != nil {
		log.Error("Failed to prepare uploads directory: %v", err)
		panic(err)
	}

	jobs, err := openQueue(cfg, log)
	if err != nil {
		log.Error("Failed to open watermark queue: %v", err)
		panic(err)
	}

	var mirror usecase.Mirror
	if cfg.MediaMirrorS3 {
		s3Client, err := s3.NewClient(cfg)
		if err != nil {
			log.Error("Failed to create S3 client: %v", err)
			panic(err)
		}
		mirror = s3Client
	}

	container, err := NewContainer(cfg, log, Backends{
		Repos:     repos,
		Store:     store,
		Publisher: jobs,
		Engine:    newEngine(cfg),
		Mirror:    mirror,
		Redis:     redisClient,
	})
	if err != nil {
		log.Error("Failed to wire services: %v", err)
		panic(err)
	}

	if err := container.Auth.BootstrapAdmin(ctx, cfg.AdminEmail); err != nil {
		log.Error("Failed to bootstrap admin: %v", err)
	}

	if err := jobs.Consume(container.Processor.Handle); err != nil {
		log.Error("Failed to start watermark workers: %v", err)
		panic(err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: NewRouter(container),
	}

	// Start server in a goroutine
	go func() {
		log.Info("Marketplace service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down marketplace service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), workerDrainTimeout)
	defer cancelDrain()
	if err := jobs.Shutdown(drainCtx); err != nil {
		log.Error("Watermark workers did not drain: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	if err := closeStore(context.Background()); err != nil {
		log.Error("Error closing database: %v", err)
	}

	log.Info("Marketplace service exited")
	log.Flush()
}

func openRepositories(ctx context.Context, cfg *config.Config, log *logger.Logger) (repo.Repositories, func(context.Context) error, error) {
	switch cfg.DBDriver {
	case "postgres":
		// Migrations are handled by goose - see cmd/migrate/main.go
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			return repo.Repositories{}, nil, err
		}
		closeFn := func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		log.Info("Using PostgreSQL store at %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
		return persistent.NewRepositories(db), closeFn, nil

	case "mongo":
		client, db, err := database.NewMongoDB(ctx, cfg)
		if err != nil {
			return repo.Repositories{}, nil, err
		}
		if err := document.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return repo.Repositories{}, nil, fmt.Errorf("failed to create mongo indexes: %w", err)
		}
		log.Info("Using MongoDB store %s", cfg.MongoDBName)
		return document.NewRepositories(db), client.Disconnect, nil
	}
	return repo.Repositories{}, nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}

func openQueue(cfg *config.Config, log *logger.Logger) (jobQueue, error) {
	switch cfg.WatermarkQueue {
	case "memory":
		return queue.NewPool(cfg.WatermarkWorkers, cfg.WatermarkQueueSize, log), nil
	case "rabbitmq":
		return queue.NewRabbitMQClient(cfg, log)
	}
	return nil, fmt.Errorf("unknown WATERMARK_QUEUE %q", cfg.WatermarkQueue)
}

func newEngine(cfg *config.Config) *watermark.Engine {
	return watermark.New(watermark.Options{
		Text:         cfg.WatermarkText,
		Position:     watermark.ParsePosition(cfg.WatermarkPosition),
		FontPath:     cfg.WatermarkFontPath,
		Opacity:      cfg.WatermarkOpacity,
		FFmpegPath:   cfg.FFmpegPath,
		VideoTimeout: cfg.WatermarkVideoTimeout,
	})
}
