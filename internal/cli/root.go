package cli

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "rekindle",
	Short:        "Relationship intelligence for your professional network",
	Long:         "Rekindle scores relationship warmth from message history, detects re-engagement opportunities, and ranks who to reach out to next.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML file overriding the built-in scoring configuration")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(warmthCmd)
	rootCmd.AddCommand(segmentCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(priorityCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(targetsCmd)
}
