package timecalc

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the calendar-day key format.
	DateLayout = "2006-01-02"
	// MonthLayout is the calendar-month key format.
	MonthLayout = "2006-01"
	// ClockLayout is the wall-clock time format used in listings and exports.
	ClockLayout = "15:04:05"
)

// FormatMinutes formats a whole number of minutes as "8h 0m".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// FormatDurationHHMMSS formats seconds as HH:MM:SS.
func FormatDurationHHMMSS(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// DateKey returns the local calendar date of t, e.g. "2026-02-27".
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthKey returns the local year and month of t, e.g. "2026-02".
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	monday = StartOfDay(monday)
	sunday := EndOfDay(monday.AddDate(0, 0, 6))
	return monday, sunday
}

// MonthRange returns the first and last day of the month containing t.
func MonthRange(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := EndOfDay(first.AddDate(0, 1, -1))
	return first, last
}

// ParseMonth parses a "2006-01" key in loc and returns the month's range.
func ParseMonth(key string, loc *time.Location) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation(MonthLayout, key, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", key, err)
	}
	from, to := MonthRange(t)
	return from, to, nil
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
