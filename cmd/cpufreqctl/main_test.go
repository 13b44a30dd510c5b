package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/mutker/cpufreqctl/internal/config"
	"codeberg.org/mutker/cpufreqctl/internal/console"
	"codeberg.org/mutker/cpufreqctl/internal/cpufreq"
	"codeberg.org/mutker/cpufreqctl/internal/history"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(cmd config.Command) *config.Config {
	return &config.Config{
		BasePath:     "/sys/devices/system/cpu/cpufreq",
		Policies:     config.DefaultPolicies,
		Governor:     cpufreq.DefaultGovernor,
		LogLevel:     "warning",
		HistoryLimit: 20,
		Presets: config.Presets{
			Performance:       config.DefaultPerformance,
			BalancedFallback:  1500000,
			PowersaveFallback: 800000,
		},
		Command: cmd,
	}
}

func testFs(t *testing.T) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	policies := map[string]string{
		"policy0": "300000 691200 1958400",
		"policy4": "691200 2400000",
		"policy7": "806400 2707200",
	}
	for p, available := range policies {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(p, "scaling_available_frequencies"), []byte(available+"\n"), 0o644))
		require.NoError(t, afero.WriteFile(fs, filepath.Join(p, "scaling_cur_freq"), []byte("691200\n"), 0o644))
		require.NoError(t, afero.WriteFile(fs, filepath.Join(p, "scaling_governor"), []byte("userspace\n"), 0o644))
		require.NoError(t, afero.WriteFile(fs, filepath.Join(p, "scaling_setspeed"), []byte("<unsupported>\n"), 0o644))
	}

	return fs
}

func runDispatch(t *testing.T, fs afero.Fs, cfg *config.Config, rec history.Recorder, input string) string {
	t.Helper()

	out := &bytes.Buffer{}
	prompter := console.NewPrompter(strings.NewReader(input), out)
	mgr := cpufreq.New(fs, cfg.ManagerConfig(),
		cpufreq.WithConfirm(prompter.Confirm),
		cpufreq.WithChangeHook(recordChange(context.Background(), rec)),
	)

	dispatch(context.Background(), cfg, console.New(out, prompter, mgr), rec)

	return out.String()
}

func noopRecorder(t *testing.T) history.Recorder {
	t.Helper()

	rec, err := history.NewService(history.DefaultConfig())
	require.NoError(t, err)

	return rec
}

func TestDispatchDefaultShowsStatusAndHint(t *testing.T) {
	out := runDispatch(t, testFs(t), testConfig(config.Command{}), noopRecorder(t), "")

	assert.Contains(t, out, "CPU frequency status")
	assert.Contains(t, out, "policy7:")
	assert.Contains(t, out, "Tip: use --help to see all options")
}

func TestDispatchStatusOmitsHint(t *testing.T) {
	out := runDispatch(t, testFs(t), testConfig(config.Command{Status: true}), noopRecorder(t), "")

	assert.Contains(t, out, "CPU frequency status")
	assert.NotContains(t, out, "Tip:")
}

func TestDispatchSetAll(t *testing.T) {
	fs := testFs(t)
	cfg := testConfig(config.Command{Set: true, Frequencies: []int{1958400, 2400000, 2707200}})

	out := runDispatch(t, fs, cfg, noopRecorder(t), "")

	assert.Contains(t, out, "Setting policy4 to 2.40 GHz (2400000 Hz)...")
	got, err := afero.ReadFile(fs, "policy7/scaling_setspeed")
	require.NoError(t, err)
	assert.Equal(t, "2707200", strings.TrimSpace(string(got)))
}

func TestDispatchSetAllCountMismatch(t *testing.T) {
	fs := testFs(t)
	cfg := testConfig(config.Command{Set: true, Frequencies: []int{1958400}})

	out := runDispatch(t, fs, cfg, noopRecorder(t), "")

	assert.Contains(t, out, "Error:")
	got, err := afero.ReadFile(fs, "policy0/scaling_setspeed")
	require.NoError(t, err)
	assert.Equal(t, "<unsupported>", strings.TrimSpace(string(got)))
}

func TestDispatchSetPolicyDeclined(t *testing.T) {
	fs := testFs(t)
	cfg := testConfig(config.Command{Policy: "policy0", Freq: 1234567})

	out := runDispatch(t, fs, cfg, noopRecorder(t), "n\n")

	assert.Contains(t, out, "Error: failed to set policy0")
	assert.NotContains(t, out, "CPU frequency status")
}

func TestDispatchPresetPowersave(t *testing.T) {
	fs := testFs(t)
	cfg := testConfig(config.Command{Preset: "powersave"})

	runDispatch(t, fs, cfg, noopRecorder(t), "")

	for p, want := range map[string]string{
		"policy0": "300000",
		"policy4": "691200",
		"policy7": "806400",
	} {
		got, err := afero.ReadFile(fs, p+"/scaling_setspeed")
		require.NoError(t, err)
		assert.Equal(t, want, strings.TrimSpace(string(got)), p)
	}
}

func TestDispatchHistoryDisabled(t *testing.T) {
	out := runDispatch(t, testFs(t), testConfig(config.Command{History: true}), noopRecorder(t), "")

	assert.Contains(t, out, "History recording is disabled")
}

func TestRecordChangeFeedsHistory(t *testing.T) {
	rec, err := history.NewService(history.Config{
		DBPath:  filepath.Join(t.TempDir(), "history.db"),
		Enabled: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Close() })

	fs := testFs(t)
	runDispatch(t, fs, testConfig(config.Command{Policy: "policy4", Freq: 2400000}), rec, "")

	entries, err := rec.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "policy4", entries[0].Policy)
	assert.Equal(t, 2400000, entries[0].Requested)
	assert.True(t, entries[0].Success)

	out := runDispatch(t, fs, testConfig(config.Command{History: true}), rec, "")
	assert.Contains(t, out, "policy4")
}
