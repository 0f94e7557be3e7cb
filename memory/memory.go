package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/daemonops/scheduler"
)

// DefaultInterval is how often the manager probes and broadcasts memory
// status unless configured otherwise.
const DefaultInterval = 5 * time.Second

// probeRetries bounds how many times a failed capacity probe is retried
// within a single broadcast.
const probeRetries = 3

// Status is a point-in-time view of the process's memory capacity.
type Status struct {
	// Max is the maximum memory available to the process, in bytes.
	Max uint64
}

// Listener receives memory status notifications.
//
// Contract:
// - Concurrency: OnMemoryStatus may be called from arbitrary goroutines,
//   concurrently with AddListener/RemoveListener on other goroutines.
// - A listener may call RemoveListener on itself from inside the callback.
// - Implementations must be comparable (pointer receivers are fine);
//   RemoveListener identifies listeners by equality.
type Listener interface {
	OnMemoryStatus(Status)
}

// ProbeFunc reports the current memory capacity.
type ProbeFunc func(ctx context.Context) (Status, error)

// HostProbe reads total host memory via gopsutil.
func HostProbe(ctx context.Context) (Status, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{Max: vm.Total}, nil
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// Scheduler drives the periodic broadcast.
	// Default: scheduler.NewFixedRate()
	Scheduler scheduler.Scheduler

	// Interval is the broadcast period. Default: DefaultInterval.
	Interval time.Duration

	// Probe reports memory capacity. Default: HostProbe.
	Probe ProbeFunc

	// Logger receives probe failures. Default: zap.NewNop().
	Logger *zap.Logger
}

// Manager owns the probe schedule and the listener registry.
type Manager struct {
	mu        sync.Mutex
	listeners []Listener

	probe    ProbeFunc
	interval time.Duration
	handle   scheduler.Handle
	stopOnce sync.Once
	log      *zap.Logger
}

// NewManager creates a manager and starts its broadcast schedule.
func NewManager(config ...ManagerConfig) *Manager {
	cfg := ManagerConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = scheduler.NewFixedRate()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Probe == nil {
		cfg.Probe = HostProbe
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	m := &Manager{
		probe:    cfg.Probe,
		interval: cfg.Interval,
		log:      cfg.Logger,
	}
	m.handle = cfg.Scheduler.Schedule(cfg.Interval, m.broadcast)
	return m
}

// AddListener registers a listener. It is notified on the next broadcast.
func (m *Manager) AddListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// RemoveListener deregisters a listener. Idempotent; removing a listener
// that was never added is a no-op.
func (m *Manager) RemoveListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, reg := range m.listeners {
		if reg == l {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			break
		}
	}
}

// Stop halts the broadcast schedule. Idempotent.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		m.handle.Stop()
	})
}

// broadcast probes capacity and fans the status out to the current
// listeners. Probe failures are retried a few times, then logged and
// skipped until the next interval.
func (m *Manager) broadcast() {
	ctx, cancel := context.WithTimeout(context.Background(), m.interval)
	defer cancel()

	var status Status
	op := func() error {
		var err error
		status, err = m.probe(ctx)
		return err
	}
	err := backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(100*time.Millisecond), probeRetries), ctx))
	if err != nil {
		m.log.Warn("memory status probe failed", zap.Error(err))
		return
	}

	m.mu.Lock()
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	var g errgroup.Group
	for _, l := range listeners {
		l := l
		g.Go(func() error {
			l.OnMemoryStatus(status)
			return nil
		})
	}
	_ = g.Wait() // listeners do not return errors
}
