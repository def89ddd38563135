package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/praxis-pm/praxis/internal/app"
	"github.com/praxis-pm/praxis/internal/platform/cache"
	"github.com/praxis-pm/praxis/internal/platform/db"
	"github.com/praxis-pm/praxis/internal/refdata"
	"github.com/praxis-pm/praxis/internal/wip"
	"github.com/praxis-pm/praxis/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	refdataRepo := refdata.NewRepository(pool)
	refdataService := refdata.NewService(refdataRepo, redisClient, cfg.RefdataCacheTTL)

	wipRepo := wip.NewRepository(pool)
	wipFetcher := wip.NewFetcher(wipRepo, cfg.WipTransactionLimit, logger, nil)
	wipService := wip.NewService(wipRepo, wipFetcher, refdataService, logger)
	wipCache := wip.NewCache(redisClient, cfg.WipCacheTTL)

	warmupJob := jobs.NewBalanceWarmupJob(wipService, wipCache, pool, logger, nil)

	warmupTask, err := jobs.NewBalanceWarmupTask("active")
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskWipBalanceWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "15 1 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
