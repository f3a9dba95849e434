package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/buildlog/internal/adapters/otel"
	"github.com/emiliopalmerini/buildlog/internal/adapters/turso"
	"github.com/emiliopalmerini/buildlog/internal/analytics"
	"github.com/emiliopalmerini/buildlog/internal/infrastructure/config"
	"github.com/emiliopalmerini/buildlog/internal/migrate"
	"github.com/emiliopalmerini/buildlog/internal/ports"
	"github.com/emiliopalmerini/buildlog/internal/timer"
	"github.com/emiliopalmerini/buildlog/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	Long: `Start the local dashboard API server.

Examples:
  buildlog serve              # Start on default port 8080
  buildlog serve --port 3000  # Start on port 3000`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides BUILDLOG_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := turso.NewDB(cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := migrate.RunAll(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Metrics are best effort; a missing collector never blocks the timer.
	var metrics ports.MetricsExporter
	exporter, err := otel.NewExporter(ctx, otel.LoadConfig())
	if err != nil {
		logger.Info("metrics export disabled", "reason", err)
		metrics = otel.NewNoOpExporter()
	} else {
		metrics = exporter
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metrics.Close(shutdownCtx)
		}()
	}

	projectRepo := turso.NewProjectRepository(db)
	timeLogRepo := turso.NewTimeLogRepository(db)
	debugLogRepo := turso.NewDebugLogRepository(db)
	learningLogRepo := turso.NewLearningLogRepository(db)

	thresholds := timer.Thresholds{
		DebugCheckpoint: time.Duration(cfg.Nudges.DebugCheckpointSeconds) * time.Second,
		DebugCutoff:     time.Duration(cfg.Nudges.DebugCutoffSeconds) * time.Second,
		BuildingBreak:   time.Duration(cfg.Nudges.BuildingBreakSeconds) * time.Second,
	}
	machine := timer.NewMachine(timer.SystemClock(), thresholds, cfg.UserID, timeLogRepo, projectRepo, metrics, logger)
	analyticsSvc := analytics.NewService(projectRepo, debugLogRepo, timer.SystemClock(), logger)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down")
		cancel()
	}()

	server := web.NewServer(cfg.Port, cfg.UserID, machine, analyticsSvc, projectRepo, timeLogRepo, debugLogRepo, learningLogRepo, logger)
	return server.Start(ctx)
}
