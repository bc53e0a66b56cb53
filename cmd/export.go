package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-clock/internal/export"
	"github.com/Tiliavir/trivial-time-clock/internal/model"
	"github.com/Tiliavir/trivial-time-clock/internal/timecalc"
	"github.com/Tiliavir/trivial-time-clock/internal/worktime"
)

// exportPrefix names files written into an --output directory.
const exportPrefix = "clock"

var (
	exportFormat string
	exportMonth  string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export events as CSV, JSON or YAML",
	Long: `Export events one row per event. Without --month, the whole history is
exported. --output writes to a file instead of stdout; when it names a
directory the file is called clock_YYYY-MM.<format>.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, yaml")
	exportCmd.Flags().StringVar(&exportMonth, "month", "", "Only export one month (YYYY-MM)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file or directory instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	stamp := now()
	var evs []model.Event
	if exportMonth != "" {
		from, to, err := timecalc.ParseMonth(exportMonth, stamp.Location())
		if err != nil {
			return err
		}
		stamp = from
		evs, err = a.rangeEvents(ctx, from, to)
		if err != nil {
			return err
		}
	} else if evs, err = a.allEvents(ctx); err != nil {
		return err
	}
	if len(evs) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No events to export.")
		return nil
	}
	evs = worktime.Chronological(evs)

	if exportOutput == "" || exportOutput == "-" {
		return export.Write(cmd.OutOrStdout(), format, evs)
	}

	path := exportOutput
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, export.FileName(exportPrefix, format, stamp))
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.Write(f, format, evs); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d events to %s\n", len(evs), path)
	return nil
}
