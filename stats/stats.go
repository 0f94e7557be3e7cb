package stats

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// RunningStats holds cumulative counters for a daemon process.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - BuildStarted/BuildFinished are called in pairs by the build loop;
//   readers may query at any time, including mid-build.
type RunningStats struct {
	mu sync.Mutex

	startTime         time.Time
	currentBuildStart time.Time
	buildCount        int
	allBuildsTime     time.Duration

	now func() time.Time
}

// NewRunningStats creates running stats anchored at the current time.
func NewRunningStats() *RunningStats {
	now := time.Now
	return &RunningStats{
		startTime: now(),
		now:       now,
	}
}

// BuildStarted marks the beginning of a build.
func (s *RunningStats) BuildStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentBuildStart = s.now()
}

// BuildFinished marks the end of a build, incrementing the completed-build
// count and accumulating the build's duration into the total active time.
func (s *RunningStats) BuildFinished() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buildCount++
	if !s.currentBuildStart.IsZero() {
		s.allBuildsTime += s.now().Sub(s.currentBuildStart)
		s.currentBuildStart = time.Time{}
	}
}

// BuildCount returns the number of completed builds.
func (s *RunningStats) BuildCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildCount
}

// StartTime returns when the daemon started.
func (s *RunningStats) StartTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startTime
}

// UpTime returns how long the daemon has been running.
func (s *RunningStats) UpTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Sub(s.startTime)
}

// PrettyUpTime returns the uptime as a human-readable string, e.g.
// "2 hrs 33 mins 40.435 secs".
func (s *RunningStats) PrettyUpTime() string {
	return PrettyDuration(s.UpTime())
}

// AllBuildsTime returns the cumulative time spent in completed builds.
func (s *RunningStats) AllBuildsTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allBuildsTime
}

// PrettyDuration renders a duration in verbose units: hours, minutes and
// seconds, omitting leading zero units. Seconds carry millisecond
// precision with trailing zeros trimmed.
func PrettyDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	hrs := int(d / time.Hour)
	d -= time.Duration(hrs) * time.Hour
	mins := int(d / time.Minute)
	d -= time.Duration(mins) * time.Minute
	secs := float64(d.Round(time.Millisecond)) / float64(time.Second)

	var parts []string
	if hrs > 0 {
		parts = append(parts, strconv.Itoa(hrs)+" hrs")
	}
	if mins > 0 || hrs > 0 {
		parts = append(parts, strconv.Itoa(mins)+" mins")
	}
	parts = append(parts, strconv.FormatFloat(secs, 'f', -1, 64)+" secs")

	return strings.Join(parts, " ")
}
