// Package memory broadcasts process memory-capacity status to registered
// listeners.
//
// A Manager periodically probes the host for memory capacity (via gopsutil
// by default) and notifies every registered Listener with the result.
// Listeners that only care about the first delivery deregister themselves
// from inside the callback; the health reporter does exactly that.
//
//	mgr := memory.NewManager(memory.ManagerConfig{
//	    Scheduler: scheduler.NewFixedRate(),
//	})
//	defer mgr.Stop()
//
//	mgr.AddListener(myListener)
//
// Callbacks fire on goroutines owned by the manager, possibly concurrently
// with the caller; listeners must be safe for that.
package memory
