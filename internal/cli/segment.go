package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rekindle/backend/internal/service"
)

var segmentAll bool

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Classify contacts into audience segments",
	Long:  "Classifies contacts into the mujertech, cascadia and job_target segments. By default only contacts that have never been tagged are classified; --all reclassifies everyone.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			var result *service.SegmentResult
			var err error
			if segmentAll {
				result, err = a.segment.SegmentAll(ctx)
			} else {
				result, err = a.segment.SegmentUntagged(ctx)
			}
			if err != nil {
				return err
			}
			slog.Info("segmentation complete", "processed", result.Processed, "none", result.None)
			return printJSON(result)
		})
	},
}

func init() {
	segmentCmd.Flags().BoolVar(&segmentAll, "all", false, "reclassify all contacts, not just untagged ones")
}
