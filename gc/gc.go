package gc

// Strategy classifies the active garbage-collection algorithm. Detailed
// pool statistics are only meaningful when the strategy is known.
type Strategy int

const (
	// StrategyUnknown means the collector could not be classified; pool
	// statistics are unavailable.
	StrategyUnknown Strategy = iota
	// StrategyGoRuntime is the Go runtime's concurrent mark-and-sweep
	// collector.
	StrategyGoRuntime
)

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyGoRuntime:
		return "go runtime"
	default:
		return "unknown"
	}
}

// Stats holds sliding-window statistics for one memory pool.
//
// A zero UsagePercent is the "no data collected yet" sentinel; see the
// package documentation.
type Stats struct {
	// Rate is the number of collections per second over the window.
	Rate float64

	// UsagePercent is the mean pool usage over the window, 0-100.
	UsagePercent int

	// Max is the pool capacity in bytes at the most recent sample.
	Max uint64
}

// Monitor exposes garbage-collection statistics for two pool categories.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use; the
//   sampler writes from a scheduler goroutine while readers query.
// - Readers never block on sampling; they see the latest complete window.
type Monitor interface {
	// Strategy reports the active collector classification.
	Strategy() Strategy

	// ShortLivedStats reports statistics for the working heap.
	ShortLivedStats() Stats

	// LongLivedStats reports statistics for the long-lived pool. Under
	// the Go runtime this is always the zero Stats.
	LongLivedStats() Stats
}
