package health_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/daemonops/gc"
	"github.com/jonwraymond/daemonops/health"
	"github.com/jonwraymond/daemonops/memory"
	"github.com/jonwraymond/daemonops/scheduler"
)

func ExampleNew() {
	sched := scheduler.NewManual()
	mgr := memory.NewManager(memory.ManagerConfig{
		Scheduler: sched,
		Probe: func(ctx context.Context) (memory.Status, error) {
			return memory.Status{Max: 2 << 30}, nil
		},
	})
	defer mgr.Stop()

	hs, err := health.New(health.Config{
		Running:   memoizedRunning{},
		Memory:    mgr,
		Scheduler: sched,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer hs.Stop()

	sched.Tick() // deliver the memory status

	report, err := hs.HealthInfo(context.Background())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(report)
	// Output:
	// Starting build in new daemon [memory: 2.0 GB]
}

func ExampleStats_HealthInfo_steadyState() {
	source := noopSource{}
	hs, err := health.New(health.Config{
		Running: memoizedRunning{builds: 2, uptime: "6 mins 34 secs"},
		Memory:  source,
		Monitor: knownMonitor{},
		Info:    zeroInfo{},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer hs.Stop()

	report, _ := hs.HealthInfo(context.Background())
	fmt.Println(report)
	// Output:
	// Starting 3rd build in daemon [uptime: 6 mins 34 secs, performance: 100%, GC rate: 1.20/s, tenured heap usage: 40% of 512.0 MB]
}

func ExampleFormatBytes() {
	fmt.Println(health.FormatBytes(512))
	fmt.Println(health.FormatBytes(4 << 30))
	// Output:
	// 512 B
	// 4.0 GB
}

func ExampleOrdinal() {
	fmt.Println(health.Ordinal(2))
	fmt.Println(health.Ordinal(13))
	fmt.Println(health.Ordinal(21))
	// Output:
	// 2nd
	// 13th
	// 21st
}

// Minimal collaborators for the examples.

type memoizedRunning struct {
	builds int
	uptime string
}

func (r memoizedRunning) BuildCount() int              { return r.builds }
func (r memoizedRunning) PrettyUpTime() string         { return r.uptime }
func (r memoizedRunning) AllBuildsTime() time.Duration { return 0 }

type knownMonitor struct{}

func (knownMonitor) Strategy() gc.Strategy { return gc.StrategyGoRuntime }
func (knownMonitor) ShortLivedStats() gc.Stats {
	return gc.Stats{Rate: 1.2, UsagePercent: 40, Max: 512 << 20}
}
func (knownMonitor) LongLivedStats() gc.Stats { return gc.Stats{} }

type zeroInfo struct{}

func (zeroInfo) CollectionTime() time.Duration { return 0 }

type noopSource struct{}

func (noopSource) AddListener(memory.Listener)    {}
func (noopSource) RemoveListener(memory.Listener) {}
