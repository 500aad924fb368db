package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestTickerLoop_RunsTasksUntilCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var fast, initial atomic.Int32

	done := make(chan error, 1)

	go func() {
		done <- TickerLoop(ctx, TickerConfig{
			Name:       "test",
			RunOnStart: true,
			Tasks: []TickerTask{
				{Name: "fast", Interval: 5 * time.Millisecond, Run: func(context.Context) { fast.Add(1) }},
				{Name: "slow", Interval: time.Hour, Run: func(context.Context) { initial.Add(1) }},
				{Name: "disabled", Interval: 0, Run: func(context.Context) { t.Error("disabled task ran") }},
			},
		})
	}()

	deadline := time.Now().Add(2 * time.Second)
	for fast.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("TickerLoop() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("TickerLoop did not stop after cancel")
	}

	if fast.Load() < 3 {
		t.Errorf("fast task ran %d times, want at least 3", fast.Load())
	}

	if initial.Load() != 1 {
		t.Errorf("slow task ran %d times, want exactly the initial run", initial.Load())
	}
}
