package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-clock/internal/advisor"
	"github.com/Tiliavir/trivial-time-clock/internal/config"
	"github.com/Tiliavir/trivial-time-clock/internal/model"
)

var tipCmd = &cobra.Command{
	Use:   "tip",
	Short: "Show a short tip based on your recent activity",
	Args:  cobra.NoArgs,
	RunE:  runTip,
}

func runTip(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	events, err := a.allEvents(ctx)
	if err != nil {
		return err
	}

	tip, err := fetchTip(ctx, a.cfg.Advisor, events)
	switch {
	case errors.Is(err, advisor.ErrNoEvents):
		fmt.Fprintln(cmd.OutOrStdout(), "No activity yet. Register an event first.")
		return nil
	case errors.Is(err, advisor.ErrDisabled):
		tip = advisor.FallbackTip
	case err != nil:
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not fetch a tip: %v\n", err)
		tip = advisor.FallbackTip
	}
	fmt.Fprintln(cmd.OutOrStdout(), styleGreen.Render(tip))
	return nil
}

func fetchTip(ctx context.Context, cfg config.AdvisorConfig, events []model.Event) (string, error) {
	if len(events) == 0 {
		return "", advisor.ErrNoEvents
	}
	client, err := advisor.NewClient(ctx, cfg, os.Getenv(cfg.APIKeyEnv))
	if err != nil {
		return "", err
	}
	return client.Tip(ctx, events)
}
