package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-clock/internal/model"
	"github.com/Tiliavir/trivial-time-clock/internal/timecalc"
	"github.com/Tiliavir/trivial-time-clock/internal/worktime"
)

var (
	reportBy     string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show worked time per day, week or month",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportBy, "by", "month", "Grouping: day, week, month")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

// period is one line of a report.
type period struct {
	Key           string  `json:"period"`
	Days          int     `json:"days"`
	Events        int     `json:"events"`
	WorkedMinutes int     `json:"worked_minutes"`
	Progress      float64 `json:"progress,omitempty"`
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	events, err := a.allEvents(cmd.Context())
	if err != nil {
		return err
	}

	periods, err := buildReport(events, reportBy, a.cfg.Targets.DailyMinutes, a.cfg.Targets.MonthlyMinutes)
	if err != nil {
		return err
	}
	return printReport(cmd.OutOrStdout(), reportBy, reportFormat, periods)
}

// buildReport groups events by day, week or month, most recent first. Days
// and months carry progress against their target; weeks have none.
func buildReport(events []model.Event, by string, dailyTarget, monthlyTarget int) ([]period, error) {
	var out []period
	switch by {
	case "day":
		for _, d := range worktime.SortedDays(worktime.GroupByDay(events)) {
			out = append(out, period{
				Key:           d.Date,
				Days:          1,
				Events:        len(d.Events),
				WorkedMinutes: d.WorkedMinutes,
				Progress:      worktime.Progress(d.WorkedMinutes, dailyTarget),
			})
		}
	case "week":
		for _, wk := range worktime.GroupByWeek(events) {
			out = append(out, period{
				Key:           wk.Key,
				Days:          len(wk.Days),
				Events:        len(wk.Events()),
				WorkedMinutes: wk.TotalMinutes,
			})
		}
	case "month":
		for _, m := range worktime.GroupByMonth(events) {
			out = append(out, period{
				Key:           m.Key,
				Days:          len(m.Days),
				Events:        len(m.Events()),
				WorkedMinutes: m.TotalMinutes,
				Progress:      worktime.Progress(m.TotalMinutes, monthlyTarget),
			})
		}
	default:
		return nil, fmt.Errorf("invalid --by value %q (want day, week or month)", by)
	}
	return out, nil
}

func printReport(w io.Writer, by, format string, periods []period) error {
	var total int
	for _, p := range periods {
		total += p.WorkedMinutes
	}

	switch format {
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"period", "days", "events", "worked_minutes"}); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
		for _, p := range periods {
			record := []string{p.Key, strconv.Itoa(p.Days), strconv.Itoa(p.Events), strconv.Itoa(p.WorkedMinutes)}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("writing CSV: %w", err)
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
	case "json":
		data, err := json.MarshalIndent(struct {
			By           string   `json:"by"`
			Periods      []period `json:"periods"`
			TotalMinutes int      `json:"total_minutes"`
		}{by, periods, total}, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "md", "":
		if len(periods) == 0 {
			fmt.Fprintln(w, "No history available yet. Start registering today!")
			return nil
		}
		fmt.Fprintf(w, "Worked time by %s\n", by)
		fmt.Fprintln(w, "--------------------------------")
		for _, p := range periods {
			line := fmt.Sprintf("%-12s%-10s%3d days", p.Key, timecalc.FormatMinutes(p.WorkedMinutes), p.Days)
			if by != "week" {
				line += "  " + renderProgress(p.Progress, 10)
			}
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w, "--------------------------------")
		fmt.Fprintf(w, "%-12s%s\n", "Total", timecalc.FormatMinutes(total))
	default:
		return fmt.Errorf("invalid --format value %q (want md, csv or json)", format)
	}
	return nil
}
