package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rekindle/backend/internal/model"
)

var (
	targetAddName  string
	targetAddNotes string
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Manage target companies for the job_target segment",
}

var targetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List target companies",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			companies, err := a.targets.List(ctx)
			if err != nil {
				return err
			}
			return printJSON(companies)
		})
	},
}

var targetsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a target company",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			tc := &model.TargetCompany{Name: targetAddName, Notes: targetAddNotes}
			if err := a.targets.Create(ctx, tc); err != nil {
				return err
			}
			return printJSON(tc)
		})
	},
}

var targetsRemoveCmd = &cobra.Command{
	Use:   "remove <company-id>",
	Short: "Remove a target company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			if err := a.targets.Delete(ctx, args[0]); err != nil {
				return err
			}
			return printJSON(map[string]bool{"removed": true})
		})
	},
}

func init() {
	targetsAddCmd.Flags().StringVar(&targetAddName, "name", "", "company name (required)")
	targetsAddCmd.Flags().StringVar(&targetAddNotes, "notes", "", "free-form notes")
	_ = targetsAddCmd.MarkFlagRequired("name")

	targetsCmd.AddCommand(targetsListCmd)
	targetsCmd.AddCommand(targetsAddCmd)
	targetsCmd.AddCommand(targetsRemoveCmd)
}
