package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/buildlog/internal/adapters/turso"
	"github.com/emiliopalmerini/buildlog/internal/domain"
	"github.com/emiliopalmerini/buildlog/internal/infrastructure/config"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Close abandoned open time logs",
	Long: `Close open time log records left behind by crashed or abandoned
sessions.

Abandoned records are closed with zero duration: the real end time is
unknown, and guessed hours would corrupt the project totals. Project
hour totals are never touched by cleanup.

Examples:
  buildlog cleanup                       # Close all abandoned records
  buildlog cleanup --before 2025-01-01   # Only records started before date
  buildlog cleanup --dry-run             # Preview what would be closed`,
	RunE: runCleanup,
}

var (
	cleanupBefore string
	cleanupDryRun bool
)

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().StringVar(&cleanupBefore, "before", "", "Only close records started before date (YYYY-MM-DD)")
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "Preview what would be closed")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	var before time.Time
	if cleanupBefore != "" {
		before, err = time.Parse("2006-01-02", cleanupBefore)
		if err != nil {
			return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", cleanupBefore)
		}
	}

	db, err := turso.NewDB(cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	timeLogRepo := turso.NewTimeLogRepository(db)

	open, err := timeLogRepo.FindOpen(ctx, cfg.UserID)
	if err != nil {
		return fmt.Errorf("find open time logs: %w", err)
	}

	var toClose []*domain.TimeLog
	for _, record := range open {
		if !before.IsZero() && !record.StartedAt.Before(before) {
			continue
		}
		toClose = append(toClose, record)
	}

	if len(toClose) == 0 {
		fmt.Println("No abandoned time logs to close")
		return nil
	}

	if cleanupDryRun {
		fmt.Printf("Would close %d record(s):\n", len(toClose))
		for _, record := range toClose {
			fmt.Printf("  - %s (started %s)\n", record.ID, record.StartedAt.Format("2006-01-02 15:04"))
		}
		return nil
	}

	closed := 0
	for _, record := range toClose {
		// Close at the start time with zero duration; the real end is
		// unknown.
		if _, err := timeLogRepo.Close(ctx, record.ID, record.StartedAt, 0); err != nil {
			fmt.Printf("Warning: failed to close record %s: %v\n", record.ID, err)
			continue
		}
		closed++
	}

	fmt.Printf("Closed %d record(s)\n", closed)
	return nil
}
