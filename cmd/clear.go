package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every registered event",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Do not ask for confirmation")
}

// interactive reports whether stdin is a terminal we can prompt on.
var interactive = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		if !interactive() {
			return errors.New("refusing to clear without a terminal; pass --yes")
		}
		if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Delete ALL registered events?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.Clear(cmd.Context()); err != nil {
		return storageError(fmt.Errorf("clearing events: %w", err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All events deleted.")
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/n]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "yep":
		return true
	}
	return false
}
