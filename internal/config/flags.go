package config

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

const usageHeader = `cpufreqctl - CPU frequency control for the Radxa Dragon Q6A

Usage:
  cpufreqctl [flags]
  cpufreqctl --set FREQ0 FREQ4 FREQ7

Flags:
`

const usageExamples = `
Examples:
  # Show status
  sudo cpufreqctl --status

  # Set all policies
  sudo cpufreqctl --set 1958400 2400000 2707200

  # Set a single policy
  sudo cpufreqctl --policy policy0 --freq 1958400

  # Interactive menu
  sudo cpufreqctl --interactive

  # Apply a preset
  sudo cpufreqctl --preset performance
`

// flagValues holds flags that feed viper rather than Command.
type flagValues struct {
	configPath string
	logLevel   string
	basePath   string
	record     bool
	debug      bool
}

func newFlagSet(cmd *Command, fv *flagValues, defaultConfigPath string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("cpufreqctl", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.BoolVarP(&cmd.Status, "status", "s", false, "Show CPU frequency status")
	fs.BoolVar(&cmd.Set, "set", false, "Set all policies to the frequencies given as arguments (policy0 policy4 policy7)")
	fs.StringVarP(&cmd.Policy, "policy", "p", "", "Policy to set (with --freq)")
	fs.IntVarP(&cmd.Freq, "freq", "f", 0, "Frequency in Hz (with --policy)")
	fs.StringVar(&cmd.Preset, "preset", "", "Apply a preset: performance, balanced or powersave")
	fs.BoolVarP(&cmd.Interactive, "interactive", "i", false, "Interactive menu")
	fs.BoolVar(&cmd.History, "history", false, "Show recently applied frequency changes")

	fs.StringVar(&fv.configPath, "config", defaultConfigPath, "Path to the config file")
	fs.StringVar(&fv.logLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warning or error")
	fs.BoolVar(&fv.debug, "debug", false, "Shorthand for --log-level debug")
	fs.StringVar(&fv.basePath, "base-path", DefaultBasePath, "cpufreq control directory")
	fs.BoolVar(&fv.record, "record", false, "Record applied frequency changes in the history database")

	return fs
}

// Usage writes the help text.
func Usage(w io.Writer) {
	fs := newFlagSet(&Command{}, &flagValues{}, "")
	fmt.Fprint(w, usageHeader)
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprint(w, usageExamples)
}
