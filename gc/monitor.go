package gc

import (
	"context"
	"math"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/jonwraymond/daemonops/scheduler"
)

// PollInterval is the default sampling period.
const PollInterval = time.Second

// windowSize bounds the sliding sample window. At the default interval
// this covers the last 20 seconds of collector activity.
const windowSize = 20

const shortLivedPool = "short_lived"

// sample is one point-in-time reading of the runtime's memory state.
type sample struct {
	at        time.Time
	numGC     uint32
	heapInuse uint64
	heapSys   uint64
}

// MonitorConfig configures a RuntimeMonitor.
type MonitorConfig struct {
	// Scheduler drives periodic sampling.
	// Default: scheduler.NewFixedRate()
	Scheduler scheduler.Scheduler

	// Interval is the sampling period. Default: PollInterval.
	Interval time.Duration

	// Meter receives per-sample instruments. Default: a noop meter.
	Meter metric.Meter

	// Logger receives sampler lifecycle messages. Default: zap.NewNop().
	Logger *zap.Logger
}

// RuntimeMonitor is a Monitor backed by the Go runtime's memory
// statistics, sampled on a fixed schedule into a sliding window.
type RuntimeMonitor struct {
	mu     sync.Mutex
	window []sample

	readStats func(*runtime.MemStats)
	now       func() time.Time
	metrics   *monitorMetrics
	handle    scheduler.Handle
	stopOnce  sync.Once
	log       *zap.Logger
}

// NewRuntimeMonitor creates a monitor and starts its sampling schedule.
func NewRuntimeMonitor(config ...MonitorConfig) *RuntimeMonitor {
	cfg := MonitorConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = scheduler.NewFixedRate()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = PollInterval
	}
	if cfg.Meter == nil {
		cfg.Meter = noop.Meter{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	m := &RuntimeMonitor{
		readStats: runtime.ReadMemStats,
		now:       time.Now,
		log:       cfg.Logger,
	}

	metrics, err := newMonitorMetrics(cfg.Meter)
	if err != nil {
		// Sampling still works without instruments.
		m.log.Warn("gc monitor instruments unavailable", zap.Error(err))
	} else {
		m.metrics = metrics
	}

	m.handle = cfg.Scheduler.Schedule(cfg.Interval, m.sample)
	return m
}

// Strategy implements Monitor. The Go runtime ships a single collector,
// so a runtime-backed monitor always knows its strategy.
func (m *RuntimeMonitor) Strategy() Strategy {
	return StrategyGoRuntime
}

// ShortLivedStats implements Monitor, deriving heap statistics from the
// current window. With fewer than two samples it returns the zero Stats.
func (m *RuntimeMonitor) ShortLivedStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.window) < 2 {
		return Stats{}
	}

	first := m.window[0]
	last := m.window[len(m.window)-1]

	var rate float64
	if elapsed := last.at.Sub(first.at).Seconds(); elapsed > 0 {
		rate = float64(last.numGC-first.numGC) / elapsed
	}

	var usageSum, counted int
	for _, s := range m.window {
		if s.heapSys == 0 {
			continue
		}
		usageSum += int(math.Round(float64(s.heapInuse) * 100 / float64(s.heapSys)))
		counted++
	}
	var usage int
	if counted > 0 {
		usage = usageSum / counted
	}

	return Stats{
		Rate:         rate,
		UsagePercent: usage,
		Max:          last.heapSys,
	}
}

// LongLivedStats implements Monitor. The Go runtime has no permgen
// analogue, so this is always the "no data" zero Stats and consumers omit
// the pool from their reports.
func (m *RuntimeMonitor) LongLivedStats() Stats {
	return Stats{}
}

// Stop halts the sampling schedule. Idempotent.
func (m *RuntimeMonitor) Stop() {
	m.stopOnce.Do(func() {
		m.handle.Stop()
	})
}

// sample takes one reading and appends it to the window.
func (m *RuntimeMonitor) sample() {
	var ms runtime.MemStats
	m.readStats(&ms)

	s := sample{
		at:        m.now(),
		numGC:     ms.NumGC,
		heapInuse: ms.HeapInuse,
		heapSys:   ms.HeapSys,
	}

	m.mu.Lock()
	var newCollections int64
	if n := len(m.window); n > 0 {
		newCollections = int64(s.numGC - m.window[n-1].numGC)
	}
	m.window = append(m.window, s)
	if len(m.window) > windowSize {
		m.window = m.window[1:]
	}
	var usage float64
	if s.heapSys > 0 {
		usage = float64(s.heapInuse) * 100 / float64(s.heapSys)
	}
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.recordSample(context.Background(), shortLivedPool, newCollections, usage)
	}
}
