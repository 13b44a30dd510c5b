package cpufreq_test

import (
	"testing"

	"codeberg.org/mutker/cpufreqctl/internal/cpufreq"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyString(t *testing.T) {
	assert.Equal(t, "2.40 GHz (2400000 Hz)", cpufreq.Frequency(2400000).String())
	assert.Equal(t, "1.00 GHz (1000000 Hz)", cpufreq.Frequency(1000000).String())
	assert.Equal(t, "800.00 MHz (800000 Hz)", cpufreq.Frequency(800000).String())
	assert.Equal(t, "999.99 MHz (999990 Hz)", cpufreq.Frequency(999990).String())
}

func TestParseFrequency(t *testing.T) {
	f, err := cpufreq.ParseFrequency(" 1958400\n")
	require.NoError(t, err)
	assert.Equal(t, cpufreq.Frequency(1958400), f)

	_, err = cpufreq.ParseFrequency("1.9GHz")
	assert.Error(t, err)
}

func TestCheckPrivileges(t *testing.T) {
	assert.NoError(t, cpufreq.CheckPrivileges(0))

	err := cpufreq.CheckPrivileges(1000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root")
}

func TestCheckBasePath(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/sys/devices/system/cpu/cpufreq", 0o755))

	assert.NoError(t, cpufreq.CheckBasePath(fs, "/sys/devices/system/cpu/cpufreq"))

	err := cpufreq.CheckBasePath(fs, "/sys/devices/system/cpu/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/sys/devices/system/cpu/missing")
}
