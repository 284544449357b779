package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rekindle/backend/internal/model"
)

var (
	recommendLimit   int
	recommendSegment string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank contacts for today's outreach",
	Long:  "Ranks contacts by composite priority (warmth, segment relevance, opportunity urgency), excluding contacts already in the active queue.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			result, err := a.ranking.DailyRecommendations(ctx, recommendLimit, model.Segment(recommendSegment))
			if err != nil {
				return err
			}
			return printJSON(result)
		})
	},
}

var priorityCmd = &cobra.Command{
	Use:   "priority <contact-id>",
	Short: "Show the priority breakdown for one contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			result, err := a.ranking.ContactPriority(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(result)
		})
	},
}

func init() {
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 15, "maximum recommendations to return")
	recommendCmd.Flags().StringVar(&recommendSegment, "segment", "", "restrict to one segment (mujertech, cascadia, job_target)")
}
