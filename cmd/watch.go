package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-clock/internal/watch"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the status on screen, refreshing when events change",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "Refresh at least this often (0 disables)")
}

// clearScreen moves the cursor home and erases the terminal.
const clearScreen = "\033[H\033[2J"

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	w := &watch.Watcher{
		Root:     a.store.WatchRoot(),
		Interval: watchInterval,
		Warn: func(err error) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		},
	}
	out := cmd.OutOrStdout()
	return w.Run(ctx, func() error {
		t := now()
		events, err := a.todayEvents(ctx, t)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		buf.WriteString(clearScreen)
		printStatus(&buf, events, t, a.cfg.Targets.DailyMinutes)
		fmt.Fprintln(&buf, styleDim.Render("Watching "+w.Root+" (Ctrl+C to quit)"))
		_, err = out.Write(buf.Bytes())
		return err
	})
}
