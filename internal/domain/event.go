package domain

import (
	"fmt"
	"time"
)

// RawEvent is one row of the raw call-volume log: how many calls an API
// received at a point in time. Timestamps are kept in UTC.
type RawEvent struct {
	Timestamp time.Time // event time, UTC
	APIName   string    // api identifier
	Familia   string    // family the api belongs to
	Llamados  float64   // call count, >= 0
}

// SeriesKey identifies one independent time series. Feature computation for
// a key must never read data belonging to another key.
type SeriesKey struct {
	APIName string
	Familia string
}

// Key returns the event's series key.
func (e *RawEvent) Key() SeriesKey {
	return SeriesKey{APIName: e.APIName, Familia: e.Familia}
}

func (k SeriesKey) String() string {
	return fmt.Sprintf("%s/%s", k.APIName, k.Familia)
}

// Less provides the canonical ordering used for deterministic iteration.
func (k SeriesKey) Less(other SeriesKey) bool {
	if k.Familia != other.Familia {
		return k.Familia < other.Familia
	}
	return k.APIName < other.APIName
}

// DayOfWeek returns the weekday with Monday=0..Sunday=6. Every component
// that buckets by weekday goes through this function so the convention
// cannot drift.
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekStart returns the Monday 00:00:00 of the week containing t.
func WeekStart(t time.Time) time.Time {
	d := DateOf(t)
	return d.AddDate(0, 0, -DayOfWeek(d))
}

// DateOf truncates t to midnight of its calendar day.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
