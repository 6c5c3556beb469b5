package cmd

import (
	"context"
	"fmt"
	"time"

	"event-sync/core/config"
	"event-sync/core/database"
	"event-sync/core/logger"
	"event-sync/core/observer"
	"event-sync/core/remote"
	"event-sync/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reportRun  string
	reportRuns bool
)

// reportCmd prints remote counts stored by the database backend, or exported reports.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print stored remote counts or exported reports",
	Long: `Prints the remote counts persisted by the database backend.

Examples:
  # Remote counts in the configured database
  report

  # List exported runs, then print one
  report --runs
  report --run 3f1c...`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportRun, "run", "", "Print the exported report of a run")
	reportCmd.Flags().BoolVar(&reportRuns, "runs", false, "List exported runs")
	RootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logg.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.TimeoutSeconds)*time.Second)
	defer cancel()

	if reportRuns || reportRun != "" {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return err
		}
		return printExported(ctx, observer.NewExporter(client, cfg.Storage, logg), logg)
	}
	return printStored(ctx, cfg.Database, logg)
}

func printExported(ctx context.Context, exp *observer.Exporter, logg *zap.Logger) error {
	if reportRun != "" {
		report, err := exp.Load(ctx, reportRun)
		if err != nil {
			return err
		}
		logg.Info("Exported report",
			zap.String("run", reportRun),
			zap.Time("created_at", report.CreatedAt),
			zap.Bool("converged", report.Converged))
		report.Log(logg)
		return nil
	}

	runs, err := exp.Runs(ctx)
	if err != nil {
		return err
	}
	logg.Info("Exported runs", zap.Int("count", len(runs)))
	for _, run := range runs {
		logg.Info("Run", zap.String("run", run))
	}
	return nil
}

func printStored(ctx context.Context, cfg database.Config, logg *zap.Logger) error {
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	missing, err := database.MissingColumns(db, remote.EventStat{}.TableName(), []string{"name", "total"})
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns %v, run simulate with REMOTE_BACKEND=database first",
			remote.EventStat{}.TableName(), missing)
	}

	stats, err := remote.NewGormBackend(db).List(ctx)
	if err != nil {
		return err
	}
	logg.Info("Stored remote counts", zap.Int("names", len(stats)))
	for _, s := range stats {
		logg.Info("Remote count", zap.String("event", s.Name), zap.Int64("total", s.Total))
	}
	return nil
}
