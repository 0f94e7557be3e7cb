package health

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jonwraymond/daemonops/gc"
	"github.com/jonwraymond/daemonops/memory"
	"github.com/jonwraymond/daemonops/scheduler"
)

// DefaultMemoryWait bounds how long the very first report waits for the
// memory-capacity notification before reporting "unknown".
const DefaultMemoryWait = 6 * time.Second

// RunningStats is the view of the daemon's cumulative counters the
// reporter reads.
type RunningStats interface {
	// BuildCount returns the number of completed builds.
	BuildCount() int

	// PrettyUpTime returns the daemon's uptime, preformatted.
	PrettyUpTime() string

	// AllBuildsTime returns the cumulative time spent building.
	AllBuildsTime() time.Duration
}

// CollectionInfo reports the cumulative time this process has spent in
// garbage collection.
type CollectionInfo interface {
	CollectionTime() time.Duration
}

// MemorySource delivers memory-capacity notifications to listeners.
type MemorySource interface {
	AddListener(memory.Listener)
	RemoveListener(memory.Listener)
}

// Config configures the health reporter.
type Config struct {
	// Running supplies the daemon's cumulative counters. Required.
	Running RunningStats

	// Memory delivers the capacity notification. Required.
	Memory MemorySource

	// Scheduler drives GC sampling when no Monitor is injected.
	// Default: scheduler.NewFixedRate()
	Scheduler scheduler.Scheduler

	// Monitor overrides the GC monitor. When set, the reporter schedules
	// no sampling of its own and Stop is a no-op.
	Monitor gc.Monitor

	// Info reports cumulative collection time. Default: gc.NewInfo().
	Info CollectionInfo

	// MemoryWait bounds the first report's wait for the memory status.
	// Default: DefaultMemoryWait.
	MemoryWait time.Duration

	// Logger receives reporter diagnostics. Default: zap.NewNop().
	Logger *zap.Logger
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Running == nil {
		return errors.New("health: running stats are required")
	}
	if c.Memory == nil {
		return errors.New("health: memory source is required")
	}
	return nil
}

// Stats builds health reports for a daemon process.
//
// Contract:
// - Concurrency: safe for concurrent use; the memory callback may fire
//   from any goroutine at any time.
// - HealthInfo blocks at most once in the reporter's lifetime, during the
//   first report, and never longer than Config.MemoryWait.
type Stats struct {
	running     RunningStats
	info        CollectionInfo
	monitor     gc.Monitor
	stopMonitor func()
	memoryWait  time.Duration
	log         *zap.Logger

	delivered   chan struct{}
	deliverOnce sync.Once
	status      atomic.Pointer[memory.Status]
}

// New creates a health reporter, registers its one-shot memory listener,
// and (unless Config.Monitor is injected) starts GC sampling on the
// scheduler.
func New(config Config) (*Stats, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Info == nil {
		config.Info = gc.NewInfo()
	}
	if config.MemoryWait <= 0 {
		config.MemoryWait = DefaultMemoryWait
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	s := &Stats{
		running:    config.Running,
		info:       config.Info,
		memoryWait: config.MemoryWait,
		log:        config.Logger,
		delivered:  make(chan struct{}),
	}

	if config.Monitor != nil {
		s.monitor = config.Monitor
	} else {
		m := gc.NewRuntimeMonitor(gc.MonitorConfig{
			Scheduler: config.Scheduler,
			Logger:    config.Logger,
		})
		s.monitor = m
		s.stopMonitor = m.Stop
	}

	config.Memory.AddListener(&statusListener{stats: s, source: config.Memory})
	return s, nil
}

// statusListener deregisters itself on first delivery and releases the
// one-shot gate.
type statusListener struct {
	stats  *Stats
	source MemorySource
}

func (l *statusListener) OnMemoryStatus(status memory.Status) {
	l.source.RemoveListener(l)
	l.stats.deliverOnce.Do(func() {
		l.stats.status.Store(&status)
		close(l.stats.delivered)
	})
}

// HealthInfo returns a short description of the daemon's health,
// recomputed on every call. It returns an error only when ctx is
// cancelled during the first report's bounded memory wait; a wait that
// times out is a normal outcome and yields an "unknown" memory report.
func (s *Stats) HealthInfo(ctx context.Context) (string, error) {
	nextBuild := s.running.BuildCount() + 1
	if nextBuild == 1 {
		return s.firstBuildInfo(ctx)
	}
	return s.buildInfo(nextBuild), nil
}

// Stop releases the GC sampling schedule, if the reporter owns one.
// Idempotent.
func (s *Stats) Stop() {
	if s.stopMonitor != nil {
		s.stopMonitor()
	}
}

func (s *Stats) firstBuildInfo(ctx context.Context) (string, error) {
	timer := time.NewTimer(s.memoryWait)
	defer timer.Stop()

	select {
	case <-s.delivered:
	case <-timer.C:
		s.log.Debug("memory status not received in time for the first health report",
			zap.Duration("waited", s.memoryWait))
	case <-ctx.Done():
		return "", fmt.Errorf("health: waiting for memory status: %w", ctx.Err())
	}

	if status := s.status.Load(); status != nil {
		return fmt.Sprintf("Starting build in new daemon [memory: %s]", FormatBytes(status.Max)), nil
	}
	return "Starting build in new daemon [memory: unknown]", nil
}

func (s *Stats) buildInfo(nextBuild int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Starting %s build in daemon [uptime: %s, performance: %d%%",
		Ordinal(nextBuild), s.running.PrettyUpTime(), s.performance())

	if s.monitor.Strategy() != gc.StrategyUnknown {
		tenured := s.monitor.ShortLivedStats()
		if tenured.UsagePercent > 0 {
			fmt.Fprintf(&b, ", GC rate: %.2f/s, tenured heap usage: %d%% of %s",
				tenured.Rate, tenured.UsagePercent, FormatBytes(tenured.Max))
			if permGen := s.monitor.LongLivedStats(); permGen.UsagePercent > 0 {
				fmt.Fprintf(&b, ", perm gen usage: %d%% of %s",
					permGen.UsagePercent, FormatBytes(permGen.Max))
			}
		} else {
			// Usage of zero is the "no data collected" sentinel; a real
			// 0% reading is not representable.
			b.WriteString(", no major garbage collections")
		}
	}

	b.WriteString("]")
	return b.String()
}

// performance scores time spent building against time spent collecting
// garbage, 0-100. Collection time that is zero, or that meets or exceeds
// the build time, is treated as unreliable and scores 100.
func (s *Stats) performance() int {
	collection := s.info.CollectionTime().Milliseconds()
	allBuilds := s.running.AllBuildsTime().Milliseconds()

	if collection > 0 && collection < allBuilds {
		return 100 - percentOf(collection, allBuilds)
	}
	return 100
}
