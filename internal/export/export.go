// Package export serialises events as one row per event for spreadsheets
// and other tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/trivial-time-clock/internal/model"
	"github.com/Tiliavir/trivial-time-clock/internal/timecalc"
)

// ErrNoEvents is returned when there is nothing to export.
var ErrNoEvents = errors.New("no events to export")

// Format is an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv, json or yaml)", s)
	}
}

// utf8BOM lets spreadsheet applications detect the encoding.
const utf8BOM = "\uFEFF"

// Row is the exported view of one event, rendered in its local wall clock.
type Row struct {
	ID    string `json:"id" yaml:"id"`
	Date  string `json:"date" yaml:"date"`
	Time  string `json:"time" yaml:"time"`
	Kind  string `json:"kind" yaml:"kind"`
	Label string `json:"label" yaml:"label"`
}

// Rows converts events to rows, preserving their order.
func Rows(events []model.Event) []Row {
	rows := make([]Row, 0, len(events))
	for _, e := range events {
		rows = append(rows, Row{
			ID:    e.ID,
			Date:  timecalc.DateKey(e.Timestamp),
			Time:  e.Timestamp.Format(timecalc.ClockLayout),
			Kind:  string(e.Kind),
			Label: e.Label(),
		})
	}
	return rows
}

// Write encodes events to w in the given format.
func Write(w io.Writer, format Format, events []model.Event) error {
	if len(events) == 0 {
		return ErrNoEvents
	}
	rows := Rows(events)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	case FormatCSV:
		return writeCSV(w, rows)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// writeCSV writes a semicolon-separated sheet, which spreadsheet applications
// in many locales open without an import dialog.
func writeCSV(w io.Writer, rows []Row) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write([]string{"id", "date", "time", "kind", "label"}); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.ID, r.Date, r.Time, r.Kind, r.Label}); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}

// FileName returns "<prefix>_YYYY-MM.<ext>" for an export made at now.
func FileName(prefix string, format Format, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, timecalc.MonthKey(now), format)
}
