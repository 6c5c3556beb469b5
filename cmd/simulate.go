package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-sync/core/config"
	"event-sync/core/logger"
	"event-sync/core/observer"
	"event-sync/core/source"
	"event-sync/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	simEvents      int
	simInterval    time.Duration
	simGrace       time.Duration
	simFailureRate float64
	simMaxDelay    time.Duration
	simExport      bool
)

// ErrNotConverged is returned when counts still differ after the grace period.
var ErrNotConverged = errors.New("remote counts did not converge")

// simulateCmd fires random occurrences and compares the counts afterwards.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Emit random occurrences and check that remote counts converge",
	Long: `Emits a fixed number of occurrences per event name at random intervals,
propagates them to the simulated remote store, waits up to the grace period for
the remote counts to catch up and prints emitted, local and remote counts.

Exits non-zero if any name has not converged.

Examples:
  # Defaults: 1000 occurrences of A and B
  simulate

  # Harsher remote store, exported report
  simulate --failure-rate 0.5 --max-delay 200ms --export`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simEvents, "events", 0, "Occurrences per name (overrides SOURCE_EVENTS)")
	simulateCmd.Flags().DurationVar(&simInterval, "interval", 0, "Max wait between occurrences (overrides SOURCE_MAX_INTERVAL)")
	simulateCmd.Flags().DurationVar(&simGrace, "grace", 0, "Time allowed for convergence (overrides SOURCE_GRACE)")
	simulateCmd.Flags().Float64Var(&simFailureRate, "failure-rate", -1, "Remote rejection probability (overrides REMOTE_FAILURE_RATE)")
	simulateCmd.Flags().DurationVar(&simMaxDelay, "max-delay", 0, "Max remote delay (overrides REMOTE_MAX_DELAY)")
	simulateCmd.Flags().BoolVar(&simExport, "export", false, "Upload the report to object storage")

	RootCmd.AddCommand(simulateCmd)
}

// applySimulateFlags overrides cfg with the flags the user set.
func applySimulateFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("events") {
		cfg.Source.Events = simEvents
	}
	if flags.Changed("interval") {
		cfg.Source.MaxInterval = simInterval
	}
	if flags.Changed("grace") {
		cfg.Source.Grace = simGrace
	}
	if flags.Changed("failure-rate") {
		cfg.Remote.FailureRate = simFailureRate
	}
	if flags.Changed("max-delay") {
		cfg.Remote.MaxDelay = simMaxDelay
	}

	if cfg.Source.Events < 0 {
		return fmt.Errorf("events must not be negative: %d", cfg.Source.Events)
	}
	if cfg.Remote.FailureRate < 0 || cfg.Remote.FailureRate >= 1 {
		return fmt.Errorf("failure rate must be in [0, 1): %v", cfg.Remote.FailureRate)
	}
	if !cfg.Remote.IsValidBackend() {
		return fmt.Errorf("unsupported remote backend: %s", cfg.Remote.Backend)
	}
	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := applySimulateFlags(cmd, cfg); err != nil {
		return err
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := simulate(ctx, a)
	if err != nil {
		return err
	}
	report.Log(logg)

	if simExport {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return err
		}
		if _, err := observer.NewExporter(client, cfg.Storage, logg).Export(ctx, report); err != nil {
			return err
		}
	}

	if !report.Converged {
		return fmt.Errorf("%w within %s (inconsistent: %v)", ErrNotConverged, cfg.Source.Grace, a.sync.Inconsistent())
	}
	logg.Info("All counts converged")
	return nil
}

// simulate emits the configured occurrences and waits for convergence.
func simulate(ctx context.Context, a *app) (observer.Report, error) {
	src := a.cfg.Source

	a.logger.Info("Emitting occurrences",
		zap.Int("per_name", src.Events),
		zap.Int("names", len(a.names)),
		zap.Duration("max_interval", src.MaxInterval),
		zap.Float64("failure_rate", a.cfg.Remote.FailureRate),
		zap.Duration("max_delay", a.cfg.Remote.MaxDelay))

	start := time.Now()
	if err := source.Burst(ctx, a.bus, a.names, src.Events, src.MaxInterval); err != nil {
		return observer.Report{}, fmt.Errorf("emit occurrences: %w", err)
	}
	a.logger.Info("Emission finished, waiting for remote counts",
		zap.Duration("elapsed", time.Since(start)),
		zap.Duration("grace", src.Grace))

	return a.observer.Await(ctx, src.Grace, src.PollInterval)
}
