// Package health produces short human-readable health summaries for a
// long-lived daemon, combining three independently updated sources into a
// single point-in-time report: memory capacity (delivered once,
// asynchronously), garbage-collection activity (sampled on a schedule),
// and the daemon's cumulative running statistics.
//
// # Basic Usage
//
//	sched := scheduler.NewFixedRate()
//	mgr := memory.NewManager(memory.ManagerConfig{Scheduler: sched})
//	defer mgr.Stop()
//
//	hs, err := health.New(health.Config{
//	    Running:   runningStats,
//	    Memory:    mgr,
//	    Scheduler: sched,
//	})
//	if err != nil {
//	    return err
//	}
//	defer hs.Stop()
//
//	// Before each build:
//	report, err := hs.HealthInfo(ctx)
//
// # Report shapes
//
// Before the first build completes, the report describes the fresh daemon
// and its memory capacity, waiting up to Config.MemoryWait for the
// capacity notification:
//
//	Starting build in new daemon [memory: 4.0 GB]
//	Starting build in new daemon [memory: unknown]
//
// From the second build on, it describes uptime, the performance score,
// and collector activity when the strategy is known:
//
//	Starting 3rd build in daemon [uptime: 2 mins 10 secs, performance: 98%, GC rate: 1.20/s, tenured heap usage: 40% of 512.0 MB]
//	Starting 3rd build in daemon [uptime: 2 mins 10 secs, performance: 98%, no major garbage collections]
//
// The report is recomputed on every call and never cached.
//
// # Testing
//
// All collaborators are injected through interfaces; pair Config.Monitor
// with a fake and scheduler.Manual to drive reports deterministically
// without timers.
package health
