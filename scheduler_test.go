package traitswap

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTaskQueueOrder(t *testing.T) {
	q := newTaskQueue()
	base := time.Now()

	var order []int
	for _, offset := range []int{5, 1, 4, 2, 3} {
		offset := offset
		q.Push(&scheduledTask{
			executeAt: base.Add(time.Duration(offset) * time.Millisecond),
			run:       func() { order = append(order, offset) },
		})
	}

	assert.Empty(t, q.PopDue(base))
	due := q.PopDue(base.Add(3 * time.Millisecond))
	for _, task := range due {
		task.run()
	}
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 2, q.Len())
}

func TestTaskQueueDropsCancelled(t *testing.T) {
	q := newTaskQueue()
	now := time.Now()

	h := &TaskHandle{task: &scheduledTask{executeAt: now}}
	q.Push(h.task)
	q.Push(&scheduledTask{executeAt: now})
	h.Cancel()

	assert.Len(t, q.PopDue(now), 1)
	assert.Zero(t, q.Len())
}

func TestTaskQueueCompacts(t *testing.T) {
	q := newTaskQueue()
	now := time.Now()
	for i := range 64 {
		task := &scheduledTask{executeAt: now.Add(time.Duration(i) * time.Millisecond)}
		task.cancelled.Store(i%2 == 0)
		q.Push(task)
	}
	q.Push(&scheduledTask{executeAt: now})

	assert.Equal(t, 33, q.Len())
	assert.Len(t, q.PopDue(now.Add(time.Second)), 33)
}

func TestNilTaskHandleCancel(t *testing.T) {
	var h *TaskHandle
	assert.NotPanics(t, h.Cancel)
}

func TestSchedulerRunsTasksAfterDelay(t *testing.T) {
	s := newScheduler(5*time.Millisecond, discardLogger())
	s.Start()
	defer s.Stop()

	var mu sync.Mutex
	var ran []string
	record := func(name string) func() {
		return func() {
			mu.Lock()
			ran = append(ran, name)
			mu.Unlock()
		}
	}

	s.AfterTicks(4, record("late"))
	s.AfterTicks(0, record("now"))
	s.AfterTicks(2, record("soon"))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ran) == 3
	}, time.Second, time.Millisecond)
	assert.Equal(t, []string{"now", "soon", "late"}, ran)
	assert.Positive(t, s.TickNumber())
}

func TestSchedulerCancel(t *testing.T) {
	s := newScheduler(5*time.Millisecond, discardLogger())
	s.Start()
	defer s.Stop()

	ran := make(chan struct{}, 1)
	h := s.AfterTicks(4, func() { ran <- struct{}{} })
	h.Cancel()

	select {
	case <-ran:
		t.Fatal("cancelled task ran")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSchedulerRecoversPanics(t *testing.T) {
	s := newScheduler(5*time.Millisecond, discardLogger())
	s.Start()
	defer s.Stop()

	s.AfterTicks(0, func() { panic("boom") })
	ran := make(chan struct{})
	s.AfterTicks(1, func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("scheduler stopped after a panicking task")
	}
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	s := newScheduler(0, discardLogger())
	assert.Equal(t, TickRate, s.tickRate)

	s.Stop()
	s.Start()
	s.Stop()
	assert.NotPanics(t, s.Stop)
}
