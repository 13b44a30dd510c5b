package cpufreq

import (
	"slices"
	"strings"

	"codeberg.org/mutker/cpufreqctl/internal/errors"
	"codeberg.org/mutker/cpufreqctl/internal/logger"
)

type PresetName string

const (
	PresetPerformance PresetName = "performance"
	PresetBalanced    PresetName = "balanced"
	PresetPowersave   PresetName = "powersave"
)

// PresetConfig holds the values presets fall back on.
type PresetConfig struct {
	// Performance is applied literally, one value per policy.
	Performance       []Frequency
	BalancedFallback  Frequency
	PowersaveFallback Frequency
}

// DefaultPresetConfig returns the values documented for the Radxa Dragon Q6A.
func DefaultPresetConfig() PresetConfig {
	return PresetConfig{
		Performance:       []Frequency{1958400, 2400000, 2707200},
		BalancedFallback:  1500000,
		PowersaveFallback: 800000,
	}
}

// Presets lists the known preset names in menu order.
func Presets() []PresetName {
	return []PresetName{PresetPerformance, PresetBalanced, PresetPowersave}
}

// ParsePreset validates a preset name.
func ParsePreset(name string) (PresetName, error) {
	p := PresetName(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(Presets(), p) {
		return "", errors.New().WithData(ErrUnknownPreset, name)
	}

	return p, nil
}

// Preset derives one frequency per policy, in declared order.
func (m *Manager) Preset(name PresetName) ([]Frequency, error) {
	switch name {
	case PresetPerformance:
		return slices.Clone(m.cfg.Presets.Performance), nil
	case PresetBalanced:
		return m.pick(func(available []Frequency) Frequency {
			return available[len(available)/2]
		}, m.cfg.Presets.BalancedFallback), nil
	case PresetPowersave:
		return m.pick(func(available []Frequency) Frequency {
			return available[len(available)-1]
		}, m.cfg.Presets.PowersaveFallback), nil
	default:
		return nil, errors.New().WithData(ErrUnknownPreset, string(name))
	}
}

func (m *Manager) pick(choose func([]Frequency) Frequency, fallback Frequency) []Frequency {
	freqs := make([]Frequency, 0, len(m.cfg.Policies))
	for _, p := range m.cfg.Policies {
		available := m.AvailableFrequencies(p)
		if len(available) == 0 {
			logger.Warn().
				Str("policy", string(p)).
				Int("fallback", int(fallback)).
				Msg("No available frequencies, using default")
			freqs = append(freqs, fallback)
			continue
		}
		freqs = append(freqs, choose(available))
	}

	return freqs
}
