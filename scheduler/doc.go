// Package scheduler provides fixed-interval task scheduling for daemon
// subsystems.
//
// The Scheduler interface decouples components that need periodic work
// (GC sampling, memory-status broadcasting) from the mechanism that drives
// it, so production code can use a ticker-backed FixedRate scheduler while
// tests drive the same components synchronously with Manual.
//
// # Basic Usage
//
//	sched := scheduler.NewFixedRate()
//	handle := sched.Schedule(time.Second, func() {
//	    // periodic work
//	})
//	defer handle.Stop()
//
// # Testing
//
//	sched := scheduler.NewManual()
//	sched.Schedule(time.Second, task)
//	sched.Tick() // runs every scheduled task once, on the caller's goroutine
package scheduler
