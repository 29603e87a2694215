package main

import (
	"context"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghQQ/capmeter/pkg/benchmark"
	"github.com/ghQQ/capmeter/pkg/capture"
)

var (
	benchIterations int
	benchWarmup     int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the capture path",
	Long: `Measure the tool's own acquisition latency per source (P50/P95/P99
of one edge wait-and-read) and its memory overhead, to separate signal
jitter from measurement jitter.`,
	RunE: runBench,
}

func init() {
	f := benchCmd.Flags()
	f.IntVar(&benchIterations, "iterations", 20, "measurements per source")
	f.IntVar(&benchWarmup, "warmup", 3, "warmup measurements per source")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	ctx, stop := ossignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, closeSource, err := buildSource(benchWarmup + benchIterations)
	if err != nil {
		return err
	}
	defer closeSource()

	registry := capture.NewRegistry()
	registry.Register(src)

	opts := benchmark.Options{
		Iterations: benchIterations,
		Warmup:     benchWarmup,
		Timeout:    cfg.WaitTimeout(),
	}
	if opts.Timeout == 0 {
		opts.Timeout = 2 * time.Second
	}

	results := benchmark.Run(ctx, timingConfig(), registry.Sources(), opts)
	benchmark.RenderResults(os.Stdout, results, benchmark.MeasureOverhead())
	return nil
}
