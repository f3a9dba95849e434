package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/buildlog/internal/adapters/turso"
	"github.com/emiliopalmerini/buildlog/internal/infrastructure/config"
	"github.com/emiliopalmerini/buildlog/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  buildlog migrate      # Run all pending migrations
  buildlog migrate 1    # Migrate to version 1
  buildlog migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := turso.NewDB(cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	target := -1
	if len(args) == 1 {
		target, err = strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version number: %s", args[0])
		}
	}

	before, _, err := migrate.CurrentVersion(ctx, db)
	if err == nil {
		fmt.Printf("Current version: %d\n", before)
	}

	if err := migrate.To(ctx, db, target); err != nil {
		return err
	}

	after, _, err := migrate.CurrentVersion(ctx, db)
	if err != nil {
		return err
	}
	fmt.Printf("Migrated to version %d\n", after)
	return nil
}
