package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ghQQ/capmeter/pkg/config"
	"github.com/ghQQ/capmeter/pkg/period"
)

var (
	cfg *config.Config
	log = logrus.New()

	cfgFile     string
	verbose     bool
	flagSource  string
	flagFormat  string
	flagPin     int
	flagDevice  string
	flagBaud    int
	flagTick    uint32
	flagPre     uint32
	flagWrap    uint32
	flagTimeout int
	flagWait    string
	simPeriodUS uint32
)

var rootCmd = &cobra.Command{
	Use:   "capmeter",
	Short: "Measure signal periods from an input-capture channel",
	Long: `capmeter measures the period of a digital signal by polling an
input-capture channel: a free-running counter latches its value on each
edge, and the elapsed ticks between consecutive edges (overflow-corrected)
give the period in microseconds.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		// Flags beat the config file.
		if cmd.Flags().Changed("source") {
			cfg.Source = flagSource
		}
		if cmd.Flags().Changed("format") {
			cfg.Format = flagFormat
		}
		if cmd.Flags().Changed("pin") {
			cfg.GPIOPin = flagPin
		}
		if cmd.Flags().Changed("device") {
			cfg.SerialDevice = flagDevice
		}
		if cmd.Flags().Changed("baud") {
			cfg.SerialBaud = flagBaud
		}
		if cmd.Flags().Changed("tick-rate") {
			cfg.TickRateMHz = flagTick
		}
		if cmd.Flags().Changed("prescale") {
			cfg.PrescaleExp = flagPre
		}
		if cmd.Flags().Changed("wrap") {
			cfg.WrapSpan = flagWrap
		}
		if cmd.Flags().Changed("timeout") {
			cfg.WaitTimeoutMS = flagTimeout
		}
		if cmd.Flags().Changed("wait-mode") {
			cfg.WaitMode = flagWait
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log.SetOutput(os.Stderr)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		} else {
			log.SetLevel(logrus.WarnLevel)
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", defaultConfigPath(), "config file path")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&flagSource, "source", "sim", "capture source: sim, gpio, serial")
	pf.StringVar(&flagFormat, "format", "table", "output format: table, json, tsv")
	pf.IntVar(&flagPin, "pin", 17, "gpio pin number (sysfs numbering)")
	pf.StringVar(&flagDevice, "device", "/dev/ttyACM0", "serial device path")
	pf.IntVar(&flagBaud, "baud", 115200, "serial baud rate")
	pf.Uint32Var(&flagTick, "tick-rate", 19, "counter tick rate in MHz")
	pf.Uint32Var(&flagPre, "prescale", 0, "prescale exponent (divide rate by 2^n)")
	pf.Uint32Var(&flagWrap, "wrap", 65536, "counter wraparound span")
	pf.IntVar(&flagTimeout, "timeout", 5000, "edge wait timeout in ms (0 = forever)")
	pf.StringVar(&flagWait, "wait-mode", "sleep", "poll strategy: spin, yield, sleep")
	pf.Uint32Var(&simPeriodUS, "sim-period", 50, "simulated signal period in us")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "capmeter.json"
	}
	return home + "/.capmeter/config.json"
}

// timingConfig builds the counter timing from the effective configuration.
func timingConfig() period.Config {
	return period.Config{
		TickRateMHz: cfg.TickRateMHz,
		PrescaleExp: cfg.PrescaleExp,
		WrapSpan:    cfg.WrapSpan,
	}
}

// limits builds the operating range from the effective configuration.
func limits() period.Limits {
	return period.Limits{
		MinPeriodUS: cfg.MinPeriodUS,
		MaxPeriodUS: cfg.MaxPeriodUS,
	}
}

func waitMode() period.WaitMode {
	switch cfg.WaitMode {
	case "spin":
		return period.WaitSpin
	case "yield":
		return period.WaitYield
	default:
		return period.WaitSleep
	}
}
