package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"codeberg.org/mutker/cpufreqctl/internal/config"
	"codeberg.org/mutker/cpufreqctl/internal/console"
	"codeberg.org/mutker/cpufreqctl/internal/cpufreq"
	"codeberg.org/mutker/cpufreqctl/internal/errors"
	"codeberg.org/mutker/cpufreqctl/internal/history"
	"codeberg.org/mutker/cpufreqctl/internal/logger"
	"codeberg.org/mutker/cpufreqctl/internal/pid"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, in io.Reader, out io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\nError: %v\n\n%s", r, debug.Stack())
			code = 1
		}
	}()

	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 2
	}

	if cfg.Command.Action() == config.ActionHelp {
		config.Usage(out)
		return 0
	}

	logger.Init(cfg.LogLevel, logger.IsService())
	logger.Debug().Str("base_path", cfg.BasePath).Strs("policies", cfg.Policies).Msg("Config loaded")

	if err := cpufreq.CheckPrivileges(unix.Geteuid()); err != nil {
		fatal(err, "Root privileges required")
	}
	if err := cpufreq.CheckBasePath(afero.NewOsFs(), cfg.BasePath); err != nil {
		fatal(err, "cpufreq control directory not found, this tool only supports the Radxa Dragon Q6A")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Command.Action().Writes() {
		if err := pid.Write(); err != nil {
			logger.Error().Err(err).Msg("Another cpufreqctl instance is changing frequencies")
			return 1
		}
		defer func() {
			if err := pid.Remove(); err != nil {
				logger.Warn().Err(err).Msg("Failed to remove PID file")
			}
		}()
	}

	rec := openHistory(cfg)
	defer func() {
		if err := rec.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close history")
		}
	}()

	go handleSignals(out, func() {
		cancel()
		_ = pid.Remove()
		_ = rec.Close()
	})

	prompter := console.NewPrompter(in, out)
	mgr := cpufreq.New(
		afero.NewBasePathFs(afero.NewOsFs(), cfg.BasePath),
		cfg.ManagerConfig(),
		cpufreq.WithConfirm(prompter.Confirm),
		cpufreq.WithChangeHook(recordChange(ctx, rec)),
	)

	dispatch(ctx, cfg, console.New(out, prompter, mgr), rec)

	return 0
}

// dispatch runs the resolved command. Failures are reported inline and never
// change the exit status.
func dispatch(ctx context.Context, cfg *config.Config, ui *console.Console, rec history.Recorder) {
	switch cfg.Command.Action() {
	case config.ActionStatus:
		ui.ShowStatus()
	case config.ActionSetAll:
		_ = ui.ApplyAll(cfg.SetFrequencies())
		ui.ShowStatus()
	case config.ActionSetPolicy:
		if err := ui.SetPolicy(cpufreq.Policy(cfg.Command.Policy), cpufreq.Frequency(cfg.Command.Freq)); err == nil {
			ui.ShowStatus()
		}
	case config.ActionPreset:
		name, err := cpufreq.ParsePreset(cfg.Command.Preset)
		if err != nil {
			logger.Error().Err(err).Msg("Invalid preset")
			return
		}
		_ = ui.ApplyPreset(name)
		ui.ShowStatus()
	case config.ActionInteractive:
		ui.Interactive()
	case config.ActionHistory:
		entries, err := rec.Recent(ctx, cfg.HistoryLimit)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to read history")
			return
		}
		ui.ShowHistory(entries, rec.Enabled())
	default:
		ui.ShowStatus()
		ui.Hint()
	}
}

func openHistory(cfg *config.Config) history.Recorder {
	rec, err := history.NewService(history.Config{
		DBPath:  cfg.HistoryDB,
		Enabled: cfg.History,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("History unavailable, changes will not be recorded")
		rec, _ = history.NewService(history.DefaultConfig())
	}

	return rec
}

func recordChange(ctx context.Context, rec history.Recorder) cpufreq.ChangeHook {
	return func(c cpufreq.Change) {
		entry := &history.Entry{
			Timestamp: time.Now(),
			Policy:    string(c.Policy),
			Governor:  c.Governor,
			Requested: int(c.Requested),
			Actual:    int(c.Actual),
			HasActual: c.HasActual,
			Success:   c.Err == nil,
		}
		if c.Err != nil {
			entry.Error = c.Err.Error()
		}

		if err := rec.Record(ctx, entry); err != nil {
			logger.Warn().Err(err).Str("policy", entry.Policy).Msg("Failed to record change")
		}
	}
}

func handleSignals(out io.Writer, cleanup func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	fmt.Fprintln(out, "\n\nInterrupted.")
	cleanup()
	os.Exit(0)
}

func fatal(err error, msg string) {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		logger.FatalWithCode(appErr).Msg(msg + ": " + err.Error())
	}
	logger.Fatal().Err(err).Msg(msg)
}
