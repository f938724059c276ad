package traitswap

import (
	"sync"
	"sync/atomic"
	"time"
)

// scheduledTask is a callback waiting for its tick.
type scheduledTask struct {
	executeAt time.Time
	run       func()
	cancelled atomic.Bool

	// index is the heap index
	index int
}

// taskQueue is a min-heap of scheduled tasks ordered by executeAt.
type taskQueue struct {
	mu    sync.Mutex
	heap  []*scheduledTask
	notif chan struct{}
}

func newTaskQueue() *taskQueue {
	return &taskQueue{
		heap:  make([]*scheduledTask, 0, 16),
		notif: make(chan struct{}, 1),
	}
}

// Push adds a task and wakes the scheduler.
func (q *taskQueue) Push(task *scheduledTask) {
	q.mu.Lock()
	if len(q.heap) >= 64 && len(q.heap)%64 == 0 {
		q.compact()
	}
	task.index = len(q.heap)
	q.heap = append(q.heap, task)
	q.up(task.index)
	q.mu.Unlock()

	select {
	case q.notif <- struct{}{}:
	default:
	}
}

// PopDue removes and returns every task due at now, in due order. Cancelled
// tasks are dropped.
func (q *taskQueue) PopDue(now time.Time) []*scheduledTask {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []*scheduledTask
	for len(q.heap) > 0 && !q.heap[0].executeAt.After(now) {
		task := q.pop()
		if !task.cancelled.Load() {
			due = append(due, task)
		}
	}
	return due
}

// Len returns the number of queued tasks, cancelled ones included.
func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap)
}

// Notify returns the channel signalled on every Push.
func (q *taskQueue) Notify() <-chan struct{} {
	return q.notif
}

// compact drops cancelled tasks and restores the heap. Caller must hold mu.
func (q *taskQueue) compact() {
	write := 0
	for _, task := range q.heap {
		if task.cancelled.Load() {
			continue
		}
		q.heap[write] = task
		task.index = write
		write++
	}
	clear(q.heap[write:])
	q.heap = q.heap[:write]

	for i := len(q.heap)/2 - 1; i >= 0; i-- {
		q.down(i, len(q.heap))
	}
}

// pop removes the earliest task. Caller must hold mu.
func (q *taskQueue) pop() *scheduledTask {
	n := len(q.heap) - 1
	q.swap(0, n)
	q.down(0, n)
	task := q.heap[n]
	q.heap[n] = nil
	q.heap = q.heap[:n]
	task.index = -1
	return task
}

func (q *taskQueue) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.heap[i].executeAt.Before(q.heap[parent].executeAt) {
			break
		}
		q.swap(i, parent)
		i = parent
	}
}

func (q *taskQueue) down(i, n int) {
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		j := left
		if right := left + 1; right < n && q.heap[right].executeAt.Before(q.heap[left].executeAt) {
			j = right
		}
		if !q.heap[j].executeAt.Before(q.heap[i].executeAt) {
			break
		}
		q.swap(i, j)
		i = j
	}
}

func (q *taskQueue) swap(i, j int) {
	q.heap[i], q.heap[j] = q.heap[j], q.heap[i]
	q.heap[i].index = i
	q.heap[j].index = j
}

// TaskHandle allows cancelling a scheduled task.
type TaskHandle struct {
	task *scheduledTask
}

// Cancel prevents the task from running if it has not run yet.
func (h *TaskHandle) Cancel() {
	if h != nil && h.task != nil {
		h.task.cancelled.Store(true)
	}
}
