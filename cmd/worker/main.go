// cmd/worker/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/mkarlin/stocksync-be/internal/adapters/db"
	"github.com/mkarlin/stocksync-be/internal/adapters/queue"
	redis_a "github.com/mkarlin/stocksync-be/internal/adapters/redis_adapter"
	"github.com/mkarlin/stocksync-be/internal/adapters/storage"
	"github.com/mkarlin/stocksync-be/internal/core/ports"
	"github.com/mkarlin/stocksync-be/internal/core/registry"
	"github.com/mkarlin/stocksync-be/internal/core/services"
	"github.com/mkarlin/stocksync-be/internal/pkg/config"
	"github.com/mkarlin/stocksync-be/internal/pkg/logger"
	"github.com/mkarlin/stocksync-be/internal/workers"
)

func main() {
	// Setup logger
	slogger := logger.SetupLogger("info", "json")

	// Load configuration
	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr))

	// Initialize database
	ctx := context.Background()
	database, err := initDatabase(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	// Initialize Redis cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	cache := redis_a.NewCache(redisClient, cfg.Redis.TTL, slogger)

	// Initialize S3 storage for ledger archival
	s3Storage, err := storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		Endpoint:        cfg.AWS.S3Endpoint,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, slogger)
	if err != nil {
		slogger.Error("failed to initialize S3 storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	ledgerArchive := storage.NewLedgerArchive(s3Storage, slogger)

	// Entity registry mirrors the API server's
	reg := registry.New()
	reg.Register(db.NewCategoryHandler())
	reg.Register(db.NewSupplierHandler())
	reg.Register(db.NewProductHandler())

	// Repositories and services
	jobRepo := db.NewSyncJobRepository(slogger)
	conflictRepo := db.NewConflictRepository(slogger)
	ledgerRepo := db.NewLedgerRepository(slogger)

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	asynqClient := asynq.NewClient(asynqRedisOpt)
	defer asynqClient.Close()
	notifier := queue.NewEnqueuer(asynqClient, slogger)

	preflight := services.NewPreflight(reg)
	replayService := services.NewReplayService(
		database, jobRepo, conflictRepo, ledgerRepo,
		preflight, reg, notifier, cache, slogger,
	)

	// Create Asynq server
	srv := asynq.NewServer(
		asynqRedisOpt,
		asynq.Config{
			Concurrency:     cfg.Asynq.Concurrency,
			Queues:          cfg.Asynq.Queues,
			StrictPriority:  cfg.Asynq.StrictPriority,
			ErrorHandler:    newTaskErrorHandler(database, jobRepo, slogger),
			RetryDelayFunc:  exponentialBackoff,
			ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
			HealthCheckFunc: healthCheck,
			Logger:          newAsynqLogger(slogger),
		},
	)

	// Create task handlers
	mux := asynq.NewServeMux()

	// Register replay handler
	replayProcessor := workers.NewReplayProcessor(replayService, cache, slogger)
	mux.HandleFunc(workers.TypeSyncReplay, replayProcessor.ProcessReplay)

	// Register notify handler
	notifyProcessor := workers.NewNotifyProcessor(cfg, slogger)
	mux.HandleFunc(workers.TypeSyncNotify, notifyProcessor.ProcessNotify)

	// Register maintenance handlers
	maintenanceProcessor := workers.NewMaintenanceProcessor(database, ledgerRepo, jobRepo, ledgerArchive, cfg, slogger)
	mux.HandleFunc(workers.TypeLedgerArchive, maintenanceProcessor.ArchiveLedger)
	mux.HandleFunc(workers.TypeCleanupJobs, maintenanceProcessor.CleanupJobs)

	// Schedule periodic maintenance
	scheduler := asynq.NewScheduler(asynqRedisOpt, &asynq.SchedulerOpts{
		Logger: newAsynqLogger(slogger),
	})
	if _, err := scheduler.Register("0 3 * * *", asynq.NewTask(workers.TypeLedgerArchive, nil), asynq.Queue("low")); err != nil {
		slogger.Error("failed to schedule ledger archival", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if _, err := scheduler.Register("30 3 * * *", asynq.NewTask(workers.TypeCleanupJobs, nil), asynq.Queue("low")); err != nil {
		slogger.Error("failed to schedule job cleanup", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Handle shutdown gracefully
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(mux); err != nil {
			slogger.Error("failed to run worker server", slog.String("error", err.Error()))
			shutdown <- syscall.SIGTERM
		}
	}()

	go func() {
		if err := scheduler.Run(); err != nil {
			slogger.Error("failed to run scheduler", slog.String("error", err.Error()))
			shutdown <- syscall.SIGTERM
		}
	}()

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues))

	// Wait for shutdown signal
	sig := <-shutdown
	slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Gracefully shutdown
	scheduler.Shutdown()
	srv.Shutdown()
	slogger.Info("worker shutdown complete")
}

func initDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*db.Database, error) {
	dbConfig := &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     10, // Fewer connections for worker
		MinConnections:     2,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}

	return db.NewDatabase(ctx, dbConfig, logger)
}

// newTaskErrorHandler marks replay jobs failed once asynq gives up on them,
// so clients polling the job see a terminal status instead of a stuck
// "processing".
func newTaskErrorHandler(database *db.Database, jobs ports.SyncJobRepository, logger *slog.Logger) asynq.ErrorHandlerFunc {
	return func(ctx context.Context, task *asynq.Task, err error) {
		logger.ErrorContext(ctx, "task processing failed",
			slog.String("type", task.Type()),
			slog.String("error", err.Error()))

		if task.Type() != workers.TypeSyncReplay {
			return
		}
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)
		if retried < maxRetry {
			return
		}

		var payload workers.ReplayPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return
		}
		if markErr := jobs.MarkFailed(ctx, database, payload.JobID, "retries exhausted: "+err.Error()); markErr != nil {
			logger.ErrorContext(ctx, "failed to mark job failed after retries",
				slog.String("job_id", payload.JobID.String()),
				slog.String("error", markErr.Error()))
		}
	}
}

func exponentialBackoff(n int, e error, t *asynq.Task) time.Duration {
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(n))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func healthCheck(err error) {
	if err != nil {
		slog.Error("worker health check failed", slog.String("error", err.Error()))
	}
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{
		logger: logger.With(slog.String("component", "asynq")),
	}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
