// Package gc monitors garbage-collection activity for a long-lived daemon.
//
// A Monitor classifies the active collector strategy and exposes
// sliding-window statistics for two memory-pool categories: the
// short-lived pool (the working heap) and the long-lived pool (a permgen
// analogue, which the Go runtime does not have). Info separately exposes
// the cumulative time the process has spent collecting, which the health
// reporter turns into a performance score.
//
// # Usage
//
//	monitor := gc.NewRuntimeMonitor(gc.MonitorConfig{
//	    Scheduler: scheduler.NewFixedRate(),
//	})
//	defer monitor.Stop()
//
//	if monitor.Strategy() != gc.StrategyUnknown {
//	    s := monitor.ShortLivedStats()
//	    fmt.Printf("GC rate %.2f/s, usage %d%%\n", s.Rate, s.UsagePercent)
//	}
//
// # The usage sentinel
//
// Stats.UsagePercent == 0 means "no data collected yet", not "zero usage";
// a genuine 0% reading with real data is not representable. Consumers use
// 0 to decide whether a pool's section appears in reports at all. This
// mirrors the behavior of the system this package reports on and is kept
// deliberately.
package gc
