package entity

import (
	"fmt"
	"time"
)

// Interval is a half-open time span [Start, End). Exact-boundary adjacency is
// not an overlap.
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start time.Time, length time.Duration) Interval {
	return Interval{Start: start, End: start.Add(length)}
}

// Overlaps reports whether the two half-open intervals intersect.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Length returns End - Start.
func (i Interval) Length() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format("15:04"), i.End.Format("15:04"))
}
