package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-clock/internal/model"
	"github.com/Tiliavir/trivial-time-clock/internal/timecalc"
	"github.com/Tiliavir/trivial-time-clock/internal/worktime"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's worked time and current state",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	t := now()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	events, err := a.todayEvents(cmd.Context(), t)
	if err != nil {
		return err
	}
	printStatus(cmd.OutOrStdout(), events, t, a.cfg.Targets.DailyMinutes)
	return nil
}

// printStatus renders the dashboard for the events of the day containing t.
func printStatus(w io.Writer, events []model.Event, t time.Time, dailyTarget int) {
	day := worktime.GroupByDay(events)[timecalc.DateKey(t)]

	fmt.Fprintln(w, header(t.Format("Monday, 02 January 2006")))
	fmt.Fprintf(w, "Now: %s\n", styleBold.Render(t.Format(timecalc.ClockLayout)))

	if len(day.Events) == 0 {
		fmt.Fprintln(w, "Waiting for the first registration of the day.")
	} else {
		last := day.Events[len(day.Events)-1]
		fmt.Fprintf(w, "Last action: %s at %s\n", last.Label(), last.Timestamp.Format(timecalc.ClockLayout))
	}

	if open, ok := worktime.OpenSince(day.Events); ok {
		elapsed := int64(t.Sub(open.Timestamp).Seconds())
		if elapsed < 0 {
			elapsed = 0
		}
		fmt.Fprintf(w, "Running: since %s (%s, not yet counted)\n",
			open.Timestamp.Format(timecalc.ClockLayout), timecalc.FormatDurationHHMMSS(elapsed))
	}

	fmt.Fprintf(w, "Today: %s  %s  target %s\n",
		styleBold.Render(timecalc.FormatMinutes(day.WorkedMinutes)),
		renderProgress(worktime.Progress(day.WorkedMinutes, dailyTarget), 20),
		timecalc.FormatMinutes(dailyTarget))
}
