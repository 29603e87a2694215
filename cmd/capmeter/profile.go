package main

import (
	"context"
	"encoding/json"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ghQQ/capmeter/pkg/period"
	"github.com/ghQQ/capmeter/pkg/signal"
)

var profileCount int

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Characterize the input signal",
	Long: `Collect a run of measurements and report per-source statistics:
mean/min/max period, jitter, implied frequency, and whether the signal is
drifting over the run.`,
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().IntVarP(&profileCount, "count", "n", 50, "number of measurements")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	ctx, stop := ossignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ms, err := collect(ctx, profileCount)
	if err != nil {
		return err
	}

	report := signal.Profile(ms)
	if cfg.Format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	report.Render(os.Stdout)
	return nil
}

// collect opens the configured source and gathers count measurements.
func collect(ctx context.Context, count int) ([]period.Measurement, error) {
	src, closeSource, err := buildSource(count)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	runner := period.NewRunner(period.New(timingConfig()), src, limits(), log)
	runner.WaitTimeout = cfg.WaitTimeout()
	runner.Wait = waitMode()

	return runner.Collect(ctx, count)
}
