package worktime

import (
	"slices"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-time-clock/internal/model"
	"github.com/Tiliavir/trivial-time-clock/internal/timecalc"
)

// DailyBucket holds the events of one local calendar day.
type DailyBucket struct {
	Date          string
	Events        []model.Event
	WorkedMinutes int
}

// MonthlyBucket holds the day buckets of one local calendar month.
type MonthlyBucket struct {
	Key          string
	Year         int
	Month        time.Month
	Days         []DailyBucket
	TotalMinutes int
}

// Events returns every event of the month in chronological order.
func (m MonthlyBucket) Events() []model.Event {
	return unionEvents(m.Days)
}

// WeeklyBucket holds the day buckets of one ISO week.
type WeeklyBucket struct {
	Key          string
	Days         []DailyBucket
	TotalMinutes int
}

// Events returns every event of the week in chronological order.
func (w WeeklyBucket) Events() []model.Event {
	return unionEvents(w.Days)
}

// GroupByDay partitions events by their local calendar date. Each bucket's
// worked minutes are computed from that day's events alone.
func GroupByDay(events []model.Event) map[string]DailyBucket {
	byDate := map[string][]model.Event{}
	for _, e := range events {
		key := timecalc.DateKey(e.Timestamp)
		byDate[key] = append(byDate[key], e)
	}

	buckets := make(map[string]DailyBucket, len(byDate))
	for key, dayEvents := range byDate {
		buckets[key] = DailyBucket{
			Date:          key,
			Events:        Chronological(dayEvents),
			WorkedMinutes: WorkedMinutes(dayEvents),
		}
	}
	return buckets
}

// SortedDays returns the buckets most recent first.
func SortedDays(days map[string]DailyBucket) []DailyBucket {
	out := make([]DailyBucket, 0, len(days))
	for _, d := range days {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b DailyBucket) int {
		return strings.Compare(b.Date, a.Date)
	})
	return out
}

// GroupByMonth rolls day buckets up into months, most recent first. Pairing
// never crosses a day boundary: a month's total is the sum of its days.
func GroupByMonth(events []model.Event) []MonthlyBucket {
	months := map[string]*MonthlyBucket{}
	for _, day := range GroupByDay(events) {
		first := day.Events[0].Timestamp
		key := timecalc.MonthKey(first)
		m, ok := months[key]
		if !ok {
			m = &MonthlyBucket{Key: key, Year: first.Year(), Month: first.Month()}
			months[key] = m
		}
		m.Days = append(m.Days, day)
		m.TotalMinutes += day.WorkedMinutes
	}

	out := make([]MonthlyBucket, 0, len(months))
	for _, m := range months {
		sortDaysAscending(m.Days)
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b MonthlyBucket) int {
		return strings.Compare(b.Key, a.Key)
	})
	return out
}

// GroupByWeek rolls day buckets up into ISO weeks, most recent first.
func GroupByWeek(events []model.Event) []WeeklyBucket {
	weeks := map[string]*WeeklyBucket{}
	for _, day := range GroupByDay(events) {
		key := timecalc.ISOWeekLabel(day.Events[0].Timestamp)
		w, ok := weeks[key]
		if !ok {
			w = &WeeklyBucket{Key: key}
			weeks[key] = w
		}
		w.Days = append(w.Days, day)
		w.TotalMinutes += day.WorkedMinutes
	}

	out := make([]WeeklyBucket, 0, len(weeks))
	for _, w := range weeks {
		sortDaysAscending(w.Days)
		out = append(out, *w)
	}
	slices.SortFunc(out, func(a, b WeeklyBucket) int {
		return strings.Compare(b.Key, a.Key)
	})
	return out
}

// Progress returns minutes/target clamped to [0, 1]. A non-positive target
// yields 0.
func Progress(minutes, target int) float64 {
	if target <= 0 || minutes <= 0 {
		return 0
	}
	p := float64(minutes) / float64(target)
	if p > 1 {
		return 1
	}
	return p
}

func sortDaysAscending(days []DailyBucket) {
	slices.SortFunc(days, func(a, b DailyBucket) int {
		return strings.Compare(a.Date, b.Date)
	})
}

func unionEvents(days []DailyBucket) []model.Event {
	var all []model.Event
	for _, d := range days {
		all = append(all, d.Events...)
	}
	return Chronological(all)
}
