package scheduler

import (
	"sync"
	"time"
)

// Handle controls a scheduled task.
//
// Contract:
// - Stop is idempotent; calling it more than once is a no-op.
// - Stop does not interrupt a task invocation already in progress, but no
//   new invocations start after Stop returns.
type Handle interface {
	// Stop cancels the schedule and releases its resources.
	Stop()
}

// Scheduler runs tasks at a fixed interval.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Tasks must not be invoked concurrently with themselves; successive
//   invocations of the same task are serialized.
type Scheduler interface {
	// Schedule runs task every interval until the returned handle is
	// stopped. The first invocation happens one interval after Schedule
	// returns, not immediately.
	Schedule(interval time.Duration, task func()) Handle
}

// FixedRate is a ticker-backed Scheduler. Each scheduled task gets its own
// goroutine.
type FixedRate struct{}

// NewFixedRate creates a new ticker-backed scheduler.
func NewFixedRate() *FixedRate {
	return &FixedRate{}
}

// Schedule implements Scheduler.
func (f *FixedRate) Schedule(interval time.Duration, task func()) Handle {
	h := &tickerHandle{done: make(chan struct{})}
	ticker := time.NewTicker(interval)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				task()
			case <-h.done:
				return
			}
		}
	}()

	return h
}

type tickerHandle struct {
	once sync.Once
	done chan struct{}
	wg   sync.WaitGroup
}

// Stop cancels the schedule and waits for the task goroutine to exit.
func (h *tickerHandle) Stop() {
	h.once.Do(func() {
		close(h.done)
		h.wg.Wait()
	})
}

// Manual is a synchronous Scheduler for tests. Scheduled tasks run only
// when the test calls Tick, on the calling goroutine.
type Manual struct {
	mu    sync.Mutex
	tasks []*manualHandle
}

// NewManual creates a new manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// Schedule implements Scheduler. The interval is recorded but otherwise
// ignored.
func (m *Manual) Schedule(interval time.Duration, task func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := &manualHandle{owner: m, interval: interval, task: task}
	m.tasks = append(m.tasks, h)
	return h
}

// Tick runs every scheduled, non-stopped task once.
func (m *Manual) Tick() {
	m.mu.Lock()
	tasks := make([]*manualHandle, len(m.tasks))
	copy(tasks, m.tasks)
	m.mu.Unlock()

	for _, h := range tasks {
		h.task()
	}
}

// TaskCount returns the number of scheduled tasks.
func (m *Manual) TaskCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

type manualHandle struct {
	owner    *Manual
	interval time.Duration
	task     func()
}

// Stop removes the task from its scheduler.
func (h *manualHandle) Stop() {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()

	for i, t := range h.owner.tasks {
		if t == h {
			h.owner.tasks = append(h.owner.tasks[:i], h.owner.tasks[i+1:]...)
			break
		}
	}
}
