package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/trivial-time-clock/internal/timecalc"
)

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0h 0m"},
		{45, "0h 45m"},
		{60, "1h 0m"},
		{480, "8h 0m"},
		{901, "15h 1m"},
		{-5, "0h 0m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatMinutes(tt.minutes)
		if got != tt.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestFormatDurationHHMMSS(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{61, "00:01:01"},
		{3661, "01:01:01"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDurationHHMMSS(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDurationHHMMSS(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestKeys(t *testing.T) {
	ts := time.Date(2026, 2, 27, 23, 30, 0, 0, time.UTC)
	if got := timecalc.DateKey(ts); got != "2026-02-27" {
		t.Errorf("DateKey = %q", got)
	}
	if got := timecalc.MonthKey(ts); got != "2026-02" {
		t.Errorf("MonthKey = %q", got)
	}
}

func TestDateKeyUsesWallClock(t *testing.T) {
	// 01:30 UTC on the 28th is still the 27th in São Paulo.
	loc := time.FixedZone("BRT", -3*3600)
	ts := time.Date(2026, 2, 28, 1, 30, 0, 0, time.UTC).In(loc)
	if got := timecalc.DateKey(ts); got != "2026-02-27" {
		t.Errorf("DateKey = %q, want 2026-02-27", got)
	}
}

func TestWeekRange(t *testing.T) {
	// 2026-02-27 is a Friday (week 9).
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	monday, sunday := timecalc.WeekRange(fri)

	wantMonday := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	wantSunday := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)

	if !monday.Equal(wantMonday) {
		t.Errorf("WeekRange monday = %v, want %v", monday, wantMonday)
	}
	if !sunday.Equal(wantSunday) {
		t.Errorf("WeekRange sunday = %v, want %v", sunday, wantSunday)
	}
}

func TestMonthRange(t *testing.T) {
	from, to := timecalc.MonthRange(time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC))
	if !from.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("MonthRange from = %v", from)
	}
	if !to.Equal(time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("MonthRange to = %v", to)
	}
}

func TestParseMonth(t *testing.T) {
	from, to, err := timecalc.ParseMonth("2026-04", time.UTC)
	if err != nil {
		t.Fatalf("ParseMonth: %v", err)
	}
	if from.Day() != 1 || to.Day() != 30 {
		t.Errorf("ParseMonth range = %v – %v", from, to)
	}
	if _, _, err := timecalc.ParseMonth("April", time.UTC); err == nil {
		t.Error("expected error for invalid month")
	}
}

func TestISOWeekLabel(t *testing.T) {
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	got := timecalc.ISOWeekLabel(fri)
	if got != "2026-W09" {
		t.Errorf("ISOWeekLabel = %q, want %q", got, "2026-W09")
	}
}
