package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-clock/internal/model"
	"github.com/Tiliavir/trivial-time-clock/internal/timecalc"
	"github.com/Tiliavir/trivial-time-clock/internal/worktime"
)

var punchCmd = &cobra.Command{
	Use:       "punch <kind>",
	Short:     "Register a time-clock event now",
	Long:      "Register a time-clock event now. Kinds: " + strings.Join(kindSlugs(), ", "),
	Args:      cobra.ExactArgs(1),
	ValidArgs: kindSlugs(),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := model.ParseKind(args[0])
		if err != nil {
			return err
		}
		return runPunch(cmd, kind)
	},
}

// shortcutAliases are the short names offered for the everyday kinds.
var shortcutAliases = map[model.Kind][]string{
	model.KindClockIn:    {"in"},
	model.KindClockOut:   {"out"},
	model.KindBreakStart: {"break"},
	model.KindBreakEnd:   {"back"},
}

// shortcutCmds returns one subcommand per kind, e.g. "clock clock-in" or "clock in".
func shortcutCmds() []*cobra.Command {
	var cmds []*cobra.Command
	for _, k := range model.Kinds() {
		kind := k
		cmds = append(cmds, &cobra.Command{
			Use:     kind.Slug(),
			Aliases: shortcutAliases[kind],
			Short:   "Register " + strings.ToLower(kind.Label()) + " now",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPunch(cmd, kind)
			},
		})
	}
	return cmds
}

func kindSlugs() []string {
	var out []string
	for _, k := range model.Kinds() {
		out = append(out, k.Slug())
	}
	return out
}

func runPunch(cmd *cobra.Command, kind model.Kind) error {
	ctx := cmd.Context()
	t := now()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	today, err := a.todayEvents(ctx, t)
	if err != nil {
		return err
	}

	e, err := model.NewEvent(kind, t)
	if err != nil {
		return err
	}
	if err := a.store.Append(ctx, e); err != nil {
		return storageError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s registered at %s\n", e.Label(), e.Timestamp.Format(timecalc.ClockLayout))
	describePunch(cmd.OutOrStdout(), cmd.ErrOrStderr(), today, e)
	return nil
}

// describePunch explains how e pairs with the events registered earlier
// today. Anomalies are only reported; they never block a registration.
func describePunch(out, errOut io.Writer, earlier []model.Event, e model.Event) {
	open, isOpen := worktime.OpenSince(earlier)
	switch e.Kind.Role() {
	case model.RoleStart:
		if isOpen {
			fmt.Fprintf(errOut, "Warning: %s at %s was still open and no longer counts\n",
				strings.ToLower(open.Label()), open.Timestamp.Format(timecalc.ClockLayout))
		}
	case model.RoleStop:
		if !isOpen {
			fmt.Fprintf(errOut, "Warning: nothing was open today; this %s event adds no worked time\n", e.Kind.Role())
			return
		}
		elapsed := int64(e.Timestamp.Sub(open.Timestamp).Seconds())
		fmt.Fprintf(out, "Interval since %s: %s\n", open.Timestamp.Format(timecalc.ClockLayout), formatElapsed(elapsed))
	}
	all := append(append([]model.Event(nil), earlier...), e)
	fmt.Fprintf(out, "Today: %s worked\n", timecalc.FormatMinutes(worktime.WorkedMinutes(all)))
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
