package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ghQQ/capmeter/pkg/histogram"
)

var (
	histCount  int
	histBins   int
	histOutput string
)

var histogramCmd = &cobra.Command{
	Use:   "histogram",
	Short: "Plot the period distribution",
	Long: `Collect a run of measurements, bin the periods, and write the
distribution as an SVG bar chart (or JSON with --format json).`,
	RunE: runHistogram,
}

func init() {
	f := histogramCmd.Flags()
	f.IntVarP(&histCount, "count", "n", 100, "number of measurements")
	f.IntVar(&histBins, "bins", 20, "number of histogram bins")
	f.StringVarP(&histOutput, "output", "o", "periods.svg", "SVG output path")
	rootCmd.AddCommand(histogramCmd)
}

func runHistogram(cmd *cobra.Command, args []string) error {
	ctx, stop := ossignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ms, err := collect(ctx, histCount)
	if err != nil {
		return err
	}

	source := cfg.Source
	if len(ms) > 0 {
		source = ms[0].Source
	}
	h := histogram.Build(source, ms, histBins)

	if cfg.Format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(h)
	}

	f, err := os.Create(histOutput)
	if err != nil {
		return err
	}
	defer f.Close()

	opts := histogram.DefaultSVGOptions()
	if err := histogram.GenerateSVG(h, f, opts); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d samples, %d bins, peak %s)\n",
		histOutput, h.Total, len(h.Bins), h.Peak().Label())
	return nil
}
