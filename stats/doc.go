// Package stats tracks cumulative running statistics for a long-lived
// daemon process: how long it has been up, how many builds it has
// completed, and how much of its lifetime was spent actively building.
//
// The counters are updated by the daemon's build loop via BuildStarted and
// BuildFinished, and read by the health reporter before each build.
//
//	rs := stats.NewRunningStats()
//
//	rs.BuildStarted()
//	// ... run the build ...
//	rs.BuildFinished()
//
//	fmt.Println(rs.BuildCount(), rs.PrettyUpTime())
package stats
