// Package cmd implements the havf-core CLI: the ingestion orchestrator,
// the vision worker/dispatcher entry points, ledger migrations, and the
// data-freshness status report.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/blazeintel/havf-core/internal/echo"
)

// RootCmd builds the root command for the havf CLI.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "havf",
		Short: "Multi-sport athlete intelligence platform",
		Long: echo.HeaderStyle().Render("HAV-F Core") + "\n\n" +
			"Ingests league rosters, scores athletes on the HAV-F composite,\n" +
			"aggregates team readiness, and runs the championship-latency\n" +
			"vision worker pool.",
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: conf.toml)")

	cmd.AddCommand(RunCmd())
	cmd.AddCommand(DbCmd())
	cmd.AddCommand(StatusCmd())
	cmd.AddCommand(VisionCmd())
	return cmd
}
