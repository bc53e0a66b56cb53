// Package worktime derives worked time from time-clock events.
//
// Every function here is pure: it never mutates its input, keeps no state
// between calls and never fails. Anomalies such as a repeated clock-in or a
// clock-out without a preceding start contribute zero minutes instead of
// producing an error.
package worktime

import (
	"slices"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-time-clock/internal/model"
)

// Interval is a closed start/stop pair.
type Interval struct {
	Start model.Event
	Stop  model.Event
}

// Duration returns the elapsed time between the interval's events.
func (iv Interval) Duration() time.Duration {
	return iv.Stop.Timestamp.Sub(iv.Start.Timestamp)
}

// Chronological returns a copy of events sorted by timestamp. Events sharing
// a timestamp are ordered by ID so the result depends only on the set of
// events, not on the order they were passed in.
func Chronological(events []model.Event) []model.Event {
	sorted := slices.Clone(events)
	slices.SortFunc(sorted, func(a, b model.Event) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return sorted
}

// scan runs the pairing state machine over a chronological copy of events.
// A start-role event (re)arms the open start, discarding any earlier one; a
// stop-role event closes the open start or is ignored when none is open.
func scan(events []model.Event) (intervals []Interval, open *model.Event) {
	for _, e := range Chronological(events) {
		switch e.Kind.Role() {
		case model.RoleStart:
			start := e
			open = &start
		case model.RoleStop:
			if open == nil {
				continue
			}
			intervals = append(intervals, Interval{Start: *open, Stop: e})
			open = nil
		}
	}
	return intervals, open
}

// Intervals returns the closed start/stop pairs in chronological order.
func Intervals(events []model.Event) []Interval {
	intervals, _ := scan(events)
	return intervals
}

// WorkedDuration returns the total elapsed time across all closed pairs.
func WorkedDuration(events []model.Event) time.Duration {
	if len(events) < 2 {
		return 0
	}
	var total time.Duration
	for _, iv := range Intervals(events) {
		total += iv.Duration()
	}
	return total
}

// WorkedMinutes returns the total worked time truncated to whole minutes.
func WorkedMinutes(events []model.Event) int {
	return int(WorkedDuration(events) / time.Minute)
}

// OpenSince returns the start event of an interval still open after the
// last event, e.g. while the user is clocked in.
func OpenSince(events []model.Event) (model.Event, bool) {
	_, open := scan(events)
	if open == nil {
		return model.Event{}, false
	}
	return *open, true
}
