package window

import (
	"fmt"
	"time"
)

// Granularity represents a tumbling window size for aggregation.
type Granularity struct {
	Name     string
	Duration time.Duration
}

// Supported granularities.
var (
	PerMinute = Granularity{Name: "1m", Duration: time.Minute}
	PerHour   = Granularity{Name: "1h", Duration: time.Hour}
)

// All supported granularities.
var All = []Granularity{PerMinute, PerHour}

// byName returns a granularity by name.
func byName(name string) (Granularity, error) {
	for _, g := range All {
		if g.Name == name {
			return g, nil
		}
	}
	return Granularity{}, fmt.Errorf("unsupported granularity: %s", name)
}

// SizeMillis returns the window size in epoch milliseconds.
func (g Granularity) SizeMillis() int64 {
	return g.Duration.Milliseconds()
}

// Assign maps an event timestamp (epoch millis) to the start of the
// tumbling window containing it. Windows are half-open intervals
// [start, start+size) aligned to the UTC epoch.
func (g Granularity) Assign(eventTimeMs int64) int64 {
	size := g.SizeMillis()
	start := eventTimeMs / size * size
	if eventTimeMs < 0 && eventTimeMs%size != 0 {
		// integer division truncates toward zero, floor instead
		start -= size
	}
	return start
}

// Next returns the start of the window following the one containing eventTimeMs.
func (g Granularity) Next(eventTimeMs int64) int64 {
	return g.Assign(eventTimeMs) + g.SizeMillis()
}

// Contains reports whether the window starting at windowStart contains eventTimeMs.
func (g Granularity) Contains(windowStart, eventTimeMs int64) bool {
	return eventTimeMs >= windowStart && eventTimeMs < windowStart+g.SizeMillis()
}

// StartTime converts a window start in epoch millis to a UTC time.Time.
func StartTime(windowStart int64) time.Time {
	return time.UnixMilli(windowStart).UTC()
}
