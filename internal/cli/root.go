package cli

import (
	"github.com/spf13/cobra"

	"github.com/cloudist-io/cloudist/internal/logging"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "cloudist",
	Short: "Diagram-driven infrastructure as code",
	Long: `Cloudist turns a diagram of cloud resources and relationships into
Terraform configuration plus a consistency report.

It provides:
  • Provider-aware resource synthesis (AWS, GCP, Azure)
  • Implicit expansion of supporting resources (roles, policies, DLQs)
  • Cross-resource wiring derived from diagram edges
  • Advisory connection suggestions and a reviewable consistency score`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logLevel)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(synthCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(workspaceCmd)
	rootCmd.AddCommand(versionCmd)
}
