package traitswap

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// TickRate is the length of one server tick (20 TPS).
const TickRate = 50 * time.Millisecond

// Scheduler runs deferred tasks on tick boundaries.
//
// Tasks run on the scheduler goroutine. Tasks that touch a player enter the
// player's world transaction themselves (see Session.Exec), so they are
// serialized with the player's event handlers.
type Scheduler struct {
	queue    *taskQueue
	tickRate time.Duration
	log      *slog.Logger

	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	stopMu  sync.Mutex

	tickNumber atomic.Uint64
}

func newScheduler(tickRate time.Duration, log *slog.Logger) *Scheduler {
	if tickRate <= 0 {
		tickRate = TickRate
	}
	return &Scheduler{
		queue:    newTaskQueue(),
		tickRate: tickRate,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the tick loop.
func (s *Scheduler) Start() {
	if s.running.Swap(true) {
		return
	}
	go s.tickLoop()
}

// Stop halts the tick loop and waits for the running tick to finish. Queued
// tasks are discarded.
func (s *Scheduler) Stop() {
	s.stopMu.Lock()
	defer s.stopMu.Unlock()
	if !s.running.Swap(false) {
		return
	}
	close(s.stopCh)
	<-s.doneCh
}

// After schedules fn to run once delay has elapsed. The task runs on the
// first tick at or after its due time.
func (s *Scheduler) After(delay time.Duration, fn func()) *TaskHandle {
	h := s.prepare(delay)
	h.task.run = fn
	s.enqueue(h)
	return h
}

// AfterTicks schedules fn to run the given number of ticks from now.
func (s *Scheduler) AfterTicks(ticks int, fn func()) *TaskHandle {
	return s.After(s.ticks(ticks), fn)
}

func (s *Scheduler) ticks(n int) time.Duration {
	return time.Duration(n) * s.tickRate
}

// prepare creates a handle for a task that is not queued yet, so callers can
// reference the handle from the task body before it can run.
func (s *Scheduler) prepare(delay time.Duration) *TaskHandle {
	return &TaskHandle{task: &scheduledTask{executeAt: time.Now().Add(delay)}}
}

func (s *Scheduler) enqueue(h *TaskHandle) {
	s.queue.Push(h.task)
}

// TickNumber returns the number of ticks run so far.
func (s *Scheduler) TickNumber() uint64 {
	return s.tickNumber.Load()
}

func (s *Scheduler) tickLoop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case now := <-ticker.C:
			s.tickNumber.Add(1)
			s.runDue(now)
		case <-s.queue.Notify():
			// Zero-delay tasks should not wait for the next tick.
			s.runDue(time.Now())
		}
	}
}

// runDue runs every task due at now.
func (s *Scheduler) runDue(now time.Time) {
	for _, task := range s.queue.PopDue(now) {
		if task.cancelled.Load() {
			continue
		}
		s.execute(task)
	}
}

// execute runs a task, recovering and logging panics so one faulty task
// does not stop the loop.
func (s *Scheduler) execute(task *scheduledTask) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("traitswap: panic in scheduled task",
				"error", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	task.run()
}
