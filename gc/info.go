package gc

import (
	"runtime"
	"time"
)

// Info reports cumulative garbage-collection cost for this process.
type Info struct {
	readStats func(*runtime.MemStats)
}

// NewInfo creates an Info backed by the Go runtime.
func NewInfo() *Info {
	return &Info{readStats: runtime.ReadMemStats}
}

// CollectionTime returns the total time the process has spent in
// stop-the-world garbage-collection pauses. Monotonically non-decreasing.
func (i *Info) CollectionTime() time.Duration {
	var ms runtime.MemStats
	i.readStats(&ms)
	return time.Duration(ms.PauseTotalNs)
}
