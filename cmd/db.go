package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blazeintel/havf-core/internal/config"
	"github.com/blazeintel/havf-core/internal/echo"
	"github.com/blazeintel/havf-core/internal/ledger"
)

// DbCmd creates the db command group.
func DbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Run-ledger database operations",
		Long:  "Migrate and inspect the Postgres run ledger that records ingestion history.",
	}
	cmd.AddCommand(DbMigrateCmd())
	return cmd
}

// DbMigrateCmd runs pending ledger migrations.
func DbMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending ledger migrations",
		Long:  "Create or update the ingestion_runs table and any other pending schema changes.",
		RunE:  dbMigrate,
	}
}

func dbMigrate(cmd *cobra.Command, args []string) error {
	echo.Header("Ledger Migration")

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("error: failed to load config: %w", err)
	}

	echo.Info("Connecting to ledger database...")
	l, err := ledger.Connect(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("error: %w", err)
	}
	defer l.DB.Close()

	echo.Success("✓ Connected")
	echo.Info("Applying migrations...")

	if err := l.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("error: migration failed: %w", err)
	}

	echo.Success("✓ Ledger schema up to date")
	return nil
}
