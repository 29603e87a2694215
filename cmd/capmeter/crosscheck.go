package main

import (
	"context"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ghQQ/capmeter/pkg/crosscheck"
)

var (
	crosscheckCount  int
	crosscheckSignal string
)

var crosscheckCmd = &cobra.Command{
	Use:   "crosscheck",
	Short: "Validate measurements against physical constraints",
	Long: `Collect a run of measurements and verify internal consistency:
tick counts against reported periods, implied frequency against the
measurable ceiling, and overflow counts against the elapsed span. With
multiple sources on the same signal their readings are compared for
consensus.`,
	RunE: runCrosscheck,
}

func init() {
	f := crosscheckCmd.Flags()
	f.IntVarP(&crosscheckCount, "count", "n", 20, "number of measurements")
	f.StringVar(&crosscheckSignal, "signal", "input", "signal name for the report")
	rootCmd.AddCommand(crosscheckCmd)
}

func runCrosscheck(cmd *cobra.Command, args []string) error {
	ctx, stop := ossignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ms, err := collect(ctx, crosscheckCount)
	if err != nil {
		return err
	}

	validations, sanity := crosscheck.RunCrossChecks(timingConfig(), limits(), crosscheckSignal, ms)

	if cfg.Format == "json" {
		return crosscheck.ReportJSON(os.Stdout, validations, sanity)
	}
	crosscheck.Report(os.Stdout, validations, sanity)
	return nil
}
