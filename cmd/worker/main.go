package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"github.com/voicearena/ttsbench/internal/config"
	"github.com/voicearena/ttsbench/internal/database"
	"github.com/voicearena/ttsbench/internal/dataset"
	"github.com/voicearena/ttsbench/internal/provider"
	"github.com/voicearena/ttsbench/internal/queue"
	"github.com/voicearena/ttsbench/internal/queue/workers"
	"github.com/voicearena/ttsbench/internal/results"
	"github.com/voicearena/ttsbench/internal/runner"
	"github.com/voicearena/ttsbench/internal/voice"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	registry := provider.DefaultRegistry()
	adapters := provider.ConfiguredAdapters(registry,
		time.Duration(cfg.Bench.TimeoutSeconds)*time.Second,
		time.Duration(cfg.Bench.PingTimeoutSec)*time.Second)

	var generator dataset.Generator = dataset.NewBuiltinGenerator()
	if cfg.Dataset.AnthropicKey != "" {
		generator = dataset.NewLLMGenerator(cfg.Dataset.AnthropicKey, cfg.Dataset.AnthropicModel)
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			// One suite at a time per worker; the runner fans out inside.
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	handlersReg := queue.NewHandlersRegistry()
	suiteWorker := workers.NewSuiteWorker(
		runner.New(adapters, cfg.Bench.Concurrency),
		voice.NewSelector(registry),
		generator,
		results.NewStore(db),
	)
	handlersReg.Register(queue.TypeSuiteRun, asynq.HandlerFunc(suiteWorker.ProcessTask))

	slog.Info("starting worker", "adapters", len(adapters))
	if err := srv.Run(handlersReg.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
