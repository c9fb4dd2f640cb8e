package profiler

import "time"

// ProfilerBuilderOption is a functional option for configuring a Profiler via NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often statistics are logged. Non-positive values keep the default.
//
// Parameters:
//   - d: the reporting interval
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithCounter adds a counter whose rate is reported alongside the frame rate.
//
// Parameters:
//   - name: the label in the report
//   - value: returns the counter's current total
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithCounter(name string, value func() uint64) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.counters = append(p.counters, &Counter{Name: name, Value: value})
	}
}

func withClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}
