package main

import (
	"context"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghQQ/capmeter/pkg/debug"
	"github.com/ghQQ/capmeter/pkg/output"
	"github.com/ghQQ/capmeter/pkg/period"
)

var (
	measureCount    int
	measureWatch    bool
	measureInterval time.Duration
	measureScore    bool
	measureRaw      bool
	measureTiming   bool
	measureTrace    bool
	pprofAddr       string
)

var measureCmd = &cobra.Command{
	Use:   "measure",
	Short: "Measure the signal period",
	Long: `Poll the capture source for edges and report the period between
consecutive edges. The first value after startup covers the span from
counter start to the first edge.`,
	RunE: runMeasure,
}

func init() {
	f := measureCmd.Flags()
	f.IntVarP(&measureCount, "count", "n", 10, "number of measurements")
	f.BoolVarP(&measureWatch, "watch", "w", false, "measure continuously with trend sparklines")
	f.DurationVarP(&measureInterval, "interval", "i", 2*time.Second, "refresh interval in watch mode")
	f.BoolVar(&measureScore, "score", false, "show stability score")
	f.BoolVar(&measureRaw, "raw", false, "dump raw tick-level values")
	f.BoolVar(&measureTiming, "timing", false, "report per-source poll timing")
	f.BoolVar(&measureTrace, "trace", false, "trace each capture event to stderr")
	f.StringVar(&pprofAddr, "pprof", "", "start pprof server on addr (e.g. localhost:6060)")

	rootCmd.AddCommand(measureCmd)
}

func runMeasure(cmd *cobra.Command, args []string) error {
	ctx, stop := ossignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if pprofAddr != "" {
		shutdown, err := debug.StartPprofServer(pprofAddr)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	edges := measureCount
	if measureWatch {
		edges = 1 << 20
	}
	src, closeSource, err := buildSource(edges)
	if err != nil {
		return err
	}
	defer closeSource()

	timed := debug.NewTimedSource(src)
	runner := period.NewRunner(period.New(timingConfig()), timed, limits(), log)
	runner.WaitTimeout = cfg.WaitTimeout()
	runner.Wait = waitMode()

	var tracer *debug.TraceLogger
	if measureTrace {
		tracer = debug.NewTraceLogger(os.Stderr)
	}

	formatter := output.NewFormatter(output.Format(cfg.Format), os.Stdout)
	formatter.SetShowScore(measureScore)

	if measureWatch {
		return watchLoop(ctx, runner, formatter, tracer)
	}

	ms, err := runner.Collect(ctx, measureCount)
	if err != nil {
		return err
	}
	if tracer != nil {
		for _, m := range ms {
			tracer.LogEdge(m.Source, m.ElapsedTick, m.Overflows > 0, m.PeriodUS)
		}
	}
	if measureRaw {
		debug.DumpRawMeasurements(os.Stdout, ms)
	}
	if err := formatter.Render(ms); err != nil {
		return err
	}
	if measureTiming {
		debug.TimingReport(os.Stdout, []debug.SourceTiming{timed.Timing})
	}

	logSuggestions(ms)
	return nil
}

// watchLoop measures continuously, redrawing the table with trend
// sparklines every interval until interrupted.
func watchLoop(ctx context.Context, runner *period.Runner, formatter *output.Formatter, tracer *debug.TraceLogger) error {
	tracker := output.NewSparklineTracker(20)
	formatter.SetSparklineTracker(tracker)

	ticker := time.NewTicker(measureInterval)
	defer ticker.Stop()

	for {
		ms, err := runner.Collect(ctx, 1)
		if err != nil {
			return err
		}
		if tracer != nil {
			for _, m := range ms {
				tracer.LogEdge(m.Source, m.ElapsedTick, m.Overflows > 0, m.PeriodUS)
			}
		}

		// Clear screen and redraw.
		os.Stdout.WriteString("\033[2J\033[H")
		if err := formatter.Render(ms); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func logSuggestions(ms []period.Measurement) {
	for source, ss := range output.GetDrillDownSuggestions(ms) {
		for _, s := range ss {
			log.WithField("source", source).Infof("%s (%s)", s.Command, s.Reason)
		}
	}
}
