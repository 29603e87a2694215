package main

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ghQQ/capmeter/pkg/baseline"
)

var (
	baselineDir   string
	baselineCount int
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Save and compare signal baselines",
	Long: `Capture a known-good signal's behavior as a named baseline, then
compare later runs against it to detect frequency drift.`,
}

var baselineSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Measure the signal and save it as a baseline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := ossignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ms, err := collect(ctx, baselineCount)
		if err != nil {
			return err
		}

		b := baseline.NewBaseline(args[0], timingConfig(), ms)
		if err := b.Save(baselineDir); err != nil {
			return err
		}
		fmt.Printf("Saved baseline %q (%d measurements, mean period %.1f us)\n",
			b.Name, len(ms), b.MeanPeriodUS)
		return nil
	},
}

var baselineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved baselines",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := baseline.List(baselineDir)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No baselines saved.")
			return nil
		}
		for _, name := range names {
			b, err := baseline.Load(name, baselineDir)
			if err != nil {
				fmt.Printf("  %s (unreadable: %v)\n", name, err)
				continue
			}
			fmt.Printf("  %-20s %s  mean %.1f us  (%d measurements)\n",
				name, b.Timestamp.Format("2006-01-02 15:04"), b.MeanPeriodUS, len(b.Measurements))
		}
		return nil
	},
}

var baselineCompareCmd = &cobra.Command{
	Use:   "compare <name>",
	Short: "Measure the signal and compare against a saved baseline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := ossignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		b, err := baseline.Load(args[0], baselineDir)
		if err != nil {
			return err
		}

		ms, err := collect(ctx, baselineCount)
		if err != nil {
			return err
		}

		comparisons := baseline.Compare(b, ms)
		baseline.RenderComparison(os.Stdout, b, comparisons)
		return nil
	},
}

func init() {
	baselineCmd.PersistentFlags().StringVar(&baselineDir, "dir", "", "baseline directory (default ~/.capmeter/baselines)")
	baselineCmd.PersistentFlags().IntVarP(&baselineCount, "count", "n", 50, "number of measurements")

	baselineCmd.AddCommand(baselineSaveCmd)
	baselineCmd.AddCommand(baselineListCmd)
	baselineCmd.AddCommand(baselineCompareCmd)
	rootCmd.AddCommand(baselineCmd)
}
