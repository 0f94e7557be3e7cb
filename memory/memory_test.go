package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jonwraymond/daemonops/scheduler"
)

type recordingListener struct {
	mu       sync.Mutex
	statuses []Status
}

func (l *recordingListener) OnMemoryStatus(s Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.statuses = append(l.statuses, s)
}

func (l *recordingListener) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.statuses)
}

func (l *recordingListener) last() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.statuses[len(l.statuses)-1]
}

func fixedProbe(max uint64) ProbeFunc {
	return func(ctx context.Context) (Status, error) {
		return Status{Max: max}, nil
	}
}

func TestManager_BroadcastDeliversStatus(t *testing.T) {
	sched := scheduler.NewManual()
	mgr := NewManager(ManagerConfig{
		Scheduler: sched,
		Probe:     fixedProbe(1 << 30),
	})
	defer mgr.Stop()

	listener := &recordingListener{}
	mgr.AddListener(listener)

	sched.Tick()

	if got := listener.count(); got != 1 {
		t.Fatalf("listener notified %d times, want 1", got)
	}
	if got := listener.last().Max; got != 1<<30 {
		t.Errorf("Status.Max = %d, want %d", got, 1<<30)
	}
}

func TestManager_RemoveListener(t *testing.T) {
	sched := scheduler.NewManual()
	mgr := NewManager(ManagerConfig{
		Scheduler: sched,
		Probe:     fixedProbe(1 << 30),
	})
	defer mgr.Stop()

	listener := &recordingListener{}
	mgr.AddListener(listener)

	sched.Tick()
	mgr.RemoveListener(listener)
	sched.Tick()

	if got := listener.count(); got != 1 {
		t.Errorf("listener notified %d times after removal, want 1", got)
	}
}

// oneShotListener removes itself on first delivery, the pattern the health
// reporter uses.
type oneShotListener struct {
	mgr   *Manager
	mu    sync.Mutex
	fired int
}

func (l *oneShotListener) OnMemoryStatus(Status) {
	l.mgr.RemoveListener(l)
	l.mu.Lock()
	l.fired++
	l.mu.Unlock()
}

func TestManager_ListenerRemovesItselfInCallback(t *testing.T) {
	sched := scheduler.NewManual()
	mgr := NewManager(ManagerConfig{
		Scheduler: sched,
		Probe:     fixedProbe(1 << 30),
	})
	defer mgr.Stop()

	listener := &oneShotListener{mgr: mgr}
	mgr.AddListener(listener)

	sched.Tick()
	sched.Tick()

	listener.mu.Lock()
	fired := listener.fired
	listener.mu.Unlock()
	if fired != 1 {
		t.Errorf("one-shot listener fired %d times, want 1", fired)
	}
}

func TestManager_ProbeRetried(t *testing.T) {
	attempts := 0
	flaky := func(ctx context.Context) (Status, error) {
		attempts++
		if attempts < 3 {
			return Status{}, errors.New("probe unavailable")
		}
		return Status{Max: 42}, nil
	}

	sched := scheduler.NewManual()
	mgr := NewManager(ManagerConfig{
		Scheduler: sched,
		Probe:     flaky,
	})
	defer mgr.Stop()

	listener := &recordingListener{}
	mgr.AddListener(listener)

	sched.Tick()

	if attempts != 3 {
		t.Errorf("probe attempted %d times, want 3", attempts)
	}
	if got := listener.count(); got != 1 {
		t.Fatalf("listener notified %d times, want 1", got)
	}
	if got := listener.last().Max; got != 42 {
		t.Errorf("Status.Max = %d, want 42", got)
	}
}

func TestManager_ProbeFailureSkipsBroadcast(t *testing.T) {
	failing := func(ctx context.Context) (Status, error) {
		return Status{}, errors.New("probe unavailable")
	}

	sched := scheduler.NewManual()
	mgr := NewManager(ManagerConfig{
		Scheduler: sched,
		Probe:     failing,
	})
	defer mgr.Stop()

	listener := &recordingListener{}
	mgr.AddListener(listener)

	sched.Tick()

	if got := listener.count(); got != 0 {
		t.Errorf("listener notified %d times on probe failure, want 0", got)
	}
}

func TestManager_StopIdempotent(t *testing.T) {
	sched := scheduler.NewManual()
	mgr := NewManager(ManagerConfig{
		Scheduler: sched,
		Probe:     fixedProbe(1),
	})

	mgr.Stop()
	mgr.Stop() // must not panic

	if got := sched.TaskCount(); got != 0 {
		t.Errorf("TaskCount() = %d after Stop, want 0", got)
	}
}

func TestHostProbe(t *testing.T) {
	status, err := HostProbe(context.Background())
	if err != nil {
		t.Skipf("host memory not readable: %v", err)
	}
	if status.Max == 0 {
		t.Error("HostProbe reported zero capacity")
	}
}
