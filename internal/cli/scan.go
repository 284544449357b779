package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rekindle/backend/internal/model"
)

var (
	scanListHook  string
	scanListLimit int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for resurrection opportunities",
	Long:  "Runs all four detectors (dormant, promise_made, question_unanswered, they_waiting) and upserts opportunities in one atomic batch.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			result, err := a.scan.RunFullScan(ctx)
			if err != nil {
				return err
			}
			slog.Info("scan complete",
				"found", result.Found,
				"created", result.Created,
				"updated", result.Updated)
			return printJSON(result)
		})
	},
}

var scanListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active opportunities, warmest contact first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			opps, err := a.scan.ListActive(ctx, model.Hook(scanListHook), scanListLimit)
			if err != nil {
				return err
			}
			return printJSON(opps)
		})
	},
}

var scanDismissCmd = &cobra.Command{
	Use:   "dismiss <opportunity-id>",
	Short: "Dismiss an opportunity without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			dismissed, err := a.scan.Dismiss(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(map[string]bool{"dismissed": dismissed})
		})
	},
}

func init() {
	scanListCmd.Flags().StringVar(&scanListHook, "hook", "", "filter by hook type")
	scanListCmd.Flags().IntVar(&scanListLimit, "limit", 50, "maximum opportunities to list")
	scanCmd.AddCommand(scanListCmd)
	scanCmd.AddCommand(scanDismissCmd)
}
