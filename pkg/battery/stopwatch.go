package battery

import "time"

// Stopwatch measures elapsed wall-clock time at millisecond resolution. It
// makes no attempt to correct for scheduler jitter; callers asserting on
// timing use a tolerance band.
type Stopwatch struct {
	start   time.Time
	lastDur int64
}

// Start captures the start of an interval.
func (s *Stopwatch) Start() {
	s.start = time.Now()
	s.lastDur = 0
}

// Delta returns the milliseconds elapsed since Start. When reset is true the
// start point is re-captured, so the next Delta measures a fresh interval.
func (s *Stopwatch) Delta(reset bool) int64 {
	if s.start.IsZero() {
		return 0
	}
	s.lastDur = time.Since(s.start).Milliseconds()
	if reset {
		s.start = time.Now()
	}
	return s.lastDur
}

// DurationMS returns the most recently captured delta without measuring
// again.
func (s *Stopwatch) DurationMS() int64 { return s.lastDur }

// Started reports whether Start has been called.
func (s *Stopwatch) Started() bool { return !s.start.IsZero() }
