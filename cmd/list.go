package cmd

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-clock/internal/model"
	"github.com/Tiliavir/trivial-time-clock/internal/timecalc"
	"github.com/Tiliavir/trivial-time-clock/internal/worktime"
)

var (
	listWeek   bool
	listMonth  string
	listRecent int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List time-clock events",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Show this week's events")
	listCmd.Flags().StringVar(&listMonth, "month", "", "Show a month's events (YYYY-MM)")
	listCmd.Flags().IntVar(&listRecent, "recent", 0, "Show the N most recent events")
	listCmd.MarkFlagsMutuallyExclusive("week", "month", "recent")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	t := now()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if listRecent > 0 {
		events, err := a.allEvents(ctx)
		if err != nil {
			return err
		}
		printRecent(cmd.OutOrStdout(), events, listRecent)
		return nil
	}

	var from, to time.Time
	switch {
	case listWeek:
		from, to = timecalc.WeekRange(t)
	case listMonth != "":
		from, to, err = timecalc.ParseMonth(listMonth, t.Location())
		if err != nil {
			return err
		}
	default:
		from = timecalc.StartOfDay(t)
		to = timecalc.EndOfDay(t)
	}

	events, err := a.rangeEvents(ctx, from, to)
	if err != nil {
		return err
	}
	printDays(cmd.OutOrStdout(), worktime.SortedDays(worktime.GroupByDay(events)))
	return nil
}

// printDays prints each day's events under a header carrying its worked total.
func printDays(w io.Writer, days []worktime.DailyBucket) {
	if len(days) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}
	for i, d := range days {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s  %s\n", styleBold.Render(d.Date), timecalc.FormatMinutes(d.WorkedMinutes))
		for _, e := range d.Events {
			fmt.Fprintf(w, "  %s  %s\n", e.Timestamp.Format(timecalc.ClockLayout), e.Label())
		}
	}
}

// printRecent prints the n most recent events, newest first.
func printRecent(w io.Writer, events []model.Event, n int) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}
	sorted := worktime.Chronological(events)
	slices.Reverse(sorted)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	fmt.Fprintln(w, header("Recent activity"))
	for _, e := range sorted {
		fmt.Fprintf(w, "%s  %s  %s\n",
			timecalc.DateKey(e.Timestamp), e.Timestamp.Format(timecalc.ClockLayout), e.Label())
	}
}
