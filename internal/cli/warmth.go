package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
)

var warmthContactID string

var warmthCmd = &cobra.Command{
	Use:   "warmth",
	Short: "Recalculate warmth scores from message history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			if warmthContactID != "" {
				if err := a.warmth.Recalculate(ctx, warmthContactID); err != nil {
					return err
				}
				return printJSON(map[string]int{"processed": 1})
			}
			result, err := a.warmth.RecalculateAll(ctx)
			if err != nil {
				return err
			}
			slog.Info("warmth recalculated",
				"processed", result.Processed,
				"with_messages", result.WithMessages)
			return printJSON(result)
		})
	},
}

var warmthFlagCmd = &cobra.Command{
	Use:   "flag-substantive",
	Short: "Backfill the substantive flag on unclassified messages",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			count, err := a.warmth.FlagSubstantive(ctx)
			if err != nil {
				return err
			}
			return printJSON(map[string]int{"flagged": count})
		})
	},
}

func init() {
	warmthCmd.Flags().StringVar(&warmthContactID, "contact", "", "recalculate a single contact")
	warmthCmd.AddCommand(warmthFlagCmd)
}
