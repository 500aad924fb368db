// Package worker runs periodic background tasks until their context ends.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	logFieldWorker = "worker"
	logFieldTask   = "task"
)

// TickerTask represents a task triggered by a ticker.
type TickerTask struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context)
}

// TickerConfig configures a ticker-based worker loop.
type TickerConfig struct {
	// Name identifies the worker for logging.
	Name string

	// Tasks are the ticker-triggered tasks to run.
	Tasks []TickerTask

	// RunOnStart runs every task once before the first tick.
	RunOnStart bool

	// Logger for the worker.
	Logger *zerolog.Logger
}

// TickerLoop runs each task on its own ticker until ctx is canceled.
// Tasks run one at a time. Returns a wrapped context error on cancellation.
func TickerLoop(ctx context.Context, cfg TickerConfig) error {
	logger := getLogger(cfg.Logger)
	logger.Info().Str(logFieldWorker, cfg.Name).Msg("starting ticker loop")

	defer logger.Info().Str(logFieldWorker, cfg.Name).Msg("ticker loop stopped")

	tasks := make([]TickerTask, 0, len(cfg.Tasks))
	for _, t := range cfg.Tasks {
		if t.Interval > 0 && t.Run != nil {
			tasks = append(tasks, t)
		}
	}

	if cfg.RunOnStart {
		for _, t := range tasks {
			logger.Debug().Str(logFieldTask, t.Name).Msg("running initial task")
			t.Run(ctx)
		}
	}

	fired := make(chan int)
	tickCtx, cancel := context.WithCancel(ctx)

	defer cancel()

	for i, t := range tasks {
		go tick(tickCtx, i, t.Interval, fired)
	}

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("ticker loop %s: %w", cfg.Name, ctx.Err())
		case i := <-fired:
			logger.Debug().Str(logFieldTask, tasks[i].Name).Msg("ticker fired")
			tasks[i].Run(ctx)
		}
	}
}

func tick(ctx context.Context, idx int, interval time.Duration, fired chan<- int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case fired <- idx:
			case <-ctx.Done():
				return
			}
		}
	}
}

func getLogger(logger *zerolog.Logger) *zerolog.Logger {
	if logger != nil {
		return logger
	}

	nop := zerolog.Nop()

	return &nop
}
