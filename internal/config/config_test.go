package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/cpufreqctl/internal/config"
	"codeberg.org/mutker/cpufreqctl/internal/cpufreq"
	"codeberg.org/mutker/cpufreqctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cpufreqctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
base_path = "/tmp/cpufreq"
policies = ["policy0", "policy4"]
governor = "userspace"
log_level = "info"
history = true
history_db = "/tmp/history.db"
history_limit = 5

[presets]
performance = [1000000, 2000000]
balanced_fallback = 1100000
powersave_fallback = 700000
`)
	t.Setenv("CPUFREQCTL_CONFIG", path)

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/cpufreq", cfg.BasePath)
	assert.Equal(t, []string{"policy0", "policy4"}, cfg.Policies)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.History)
	assert.Equal(t, "/tmp/history.db", cfg.HistoryDB)
	assert.Equal(t, 5, cfg.HistoryLimit)
	assert.Equal(t, []int{1000000, 2000000}, cfg.Presets.Performance)

	mc := cfg.ManagerConfig()
	assert.Equal(t, []cpufreq.Policy{"policy0", "policy4"}, mc.Policies)
	assert.Equal(t, cpufreq.Frequency(1100000), mc.Presets.BalancedFallback)
	assert.Equal(t, cpufreq.Frequency(700000), mc.Presets.PowersaveFallback)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CPUFREQCTL_CONFIG", "")

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultBasePath, cfg.BasePath)
	assert.Equal(t, config.DefaultPolicies, cfg.Policies)
	assert.Equal(t, config.DefaultGovernor, cfg.Governor)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.False(t, cfg.History)
	assert.Equal(t, config.DefaultPerformance, cfg.Presets.Performance)
	assert.Equal(t, 1500000, cfg.Presets.BalancedFallback)
	assert.Equal(t, 800000, cfg.Presets.PowersaveFallback)
	assert.Equal(t, config.ActionDefault, cfg.Command.Action())
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	t.Setenv("CPUFREQCTL_CONFIG", writeConfig(t, "This is not a valid TOML file\n"))

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestInvalidLogLevel(t *testing.T) {
	t.Setenv("CPUFREQCTL_CONFIG", writeConfig(t, `log_level = "invalid"`))

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestPerformancePresetMustMatchPolicies(t *testing.T) {
	t.Setenv("CPUFREQCTL_CONFIG", writeConfig(t, `policies = ["policy0"]`))

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
}

func TestFlagsOverrideFileAndEnv(t *testing.T) {
	t.Setenv("CPUFREQCTL_CONFIG", writeConfig(t, `log_level = "error"`))
	t.Setenv("CPUFREQCTL_BASE_PATH", "/env/cpufreq")

	cfg, err := config.Load([]string{"--log-level", "info"})
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "/env/cpufreq", cfg.BasePath)

	cfg, err = config.Load([]string{"--debug", "--base-path", "/flag/cpufreq"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/flag/cpufreq", cfg.BasePath)
}

func TestCommandResolution(t *testing.T) {
	t.Setenv("CPUFREQCTL_CONFIG", "")

	tests := []struct {
		name string
		args []string
		want config.Action
	}{
		{name: "status wins", args: []string{"-s", "--preset", "performance", "-i"}, want: config.ActionStatus},
		{name: "set before policy", args: []string{"--set", "1", "2", "3", "-p", "policy0", "-f", "800000"}, want: config.ActionSetAll},
		{name: "policy and freq", args: []string{"-p", "policy4", "-f", "800000", "--preset", "balanced"}, want: config.ActionSetPolicy},
		{name: "policy without freq", args: []string{"-p", "policy4"}, want: config.ActionDefault},
		{name: "preset before interactive", args: []string{"--preset", "powersave", "-i"}, want: config.ActionPreset},
		{name: "interactive", args: []string{"--interactive"}, want: config.ActionInteractive},
		{name: "history", args: []string{"--history"}, want: config.ActionHistory},
		{name: "help", args: []string{"--help"}, want: config.ActionHelp},
		{name: "none", args: nil, want: config.ActionDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Command.Action())
		})
	}
}

func TestSetFrequencies(t *testing.T) {
	t.Setenv("CPUFREQCTL_CONFIG", "")

	cfg, err := config.Load([]string{"--set", "1958400", "2400000,2707200"})
	require.NoError(t, err)
	assert.Equal(t, []cpufreq.Frequency{1958400, 2400000, 2707200}, cfg.SetFrequencies())

	cfg, err = config.Load([]string{"--set", "1958400"})
	require.NoError(t, err, "count is checked when applying")
	assert.Len(t, cfg.SetFrequencies(), 1)

	_, err = config.Load([]string{"--set", "1958400", "fast", "2707200"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrParseFlags))
}

func TestInvalidCommandValues(t *testing.T) {
	t.Setenv("CPUFREQCTL_CONFIG", "")

	_, err := config.Load([]string{"--policy", "policy9", "--freq", "800000"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidPolicy))

	_, err = config.Load([]string{"--preset", "turbo"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidPreset))

	_, err = config.Load([]string{"--no-such-flag"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrParseFlags))
}

func TestPositionalArgsRequireSet(t *testing.T) {
	t.Setenv("CPUFREQCTL_CONFIG", "")

	for _, args := range [][]string{
		{"1958400", "2400000", "2707200"},
		{"-s", "1958400"},
		{"-p", "policy0", "-f", "800000", "extra"},
	} {
		_, err := config.Load(args)
		require.Error(t, err, args)
		assert.True(t, errors.HasCode(err, errors.ErrParseFlags), args)
		assert.Contains(t, err.Error(), "--set")
	}
}
