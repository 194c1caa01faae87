package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorker_EnqueueAsync(t *testing.T) {
	w := NewWorker(2)

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		w.EnqueueAsync("count", func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}
	w.EnqueueAsync("fail", func(ctx context.Context) error {
		return errors.New("smtp down")
	})
	w.EnqueueAsync("panic", func(ctx context.Context) error {
		panic("boom")
	})

	w.Shutdown()

	stats := w.GetStats()
	assert.Equal(t, int32(5), ran.Load())
	assert.Equal(t, int64(7), stats.CompletedJobs)
	assert.Equal(t, int64(2), stats.FailedJobs)
	assert.Equal(t, 0, stats.ActiveJobs)
	assert.Equal(t, 10, stats.MaxConcurrent)
}

func TestWorker_Enqueue(t *testing.T) {
	w := NewWorker(1)

	done := make(chan struct{})
	w.Enqueue("signal", func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queued job never ran")
	}
	w.Shutdown()
}

func TestWorker_ScheduleEveryImmediate(t *testing.T) {
	w := NewWorker(1)

	var runs atomic.Int32
	w.ScheduleEveryImmediate("tick", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	w.Shutdown()
	assert.Equal(t, int32(1), runs.Load())
}

func TestWorker_DropsJobsAfterShutdown(t *testing.T) {
	w := NewWorker(1)
	w.Shutdown()
	w.Shutdown()

	var ran atomic.Bool
	w.EnqueueAsync("late", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	w.Enqueue("late", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	assert.False(t, ran.Load())
}
