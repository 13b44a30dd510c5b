package cpufreq

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"codeberg.org/mutker/cpufreqctl/internal/errors"
	"codeberg.org/mutker/cpufreqctl/internal/logger"
	"github.com/spf13/afero"
)

const (
	defaultFilePerm = 0o644

	// DefaultGovernor is the governor that accepts writes to scaling_setspeed.
	DefaultGovernor = "userspace"
)

// Config describes the policies a Manager controls.
type Config struct {
	Policies []Policy
	Governor string
	Presets  PresetConfig
}

// Option configures a Manager.
type Option func(*Manager)

// WithConfirm sets the callback used when a frequency is not in the available list.
func WithConfirm(fn ConfirmFunc) Option {
	return func(m *Manager) {
		m.confirm = fn
	}
}

// WithChangeHook registers an observer for frequency writes.
func WithChangeHook(fn ChangeHook) Option {
	return func(m *Manager) {
		m.onChange = fn
	}
}

// Manager implements Controller over a filesystem rooted at the cpufreq directory.
type Manager struct {
	fs       afero.Fs
	cfg      Config
	confirm  ConfirmFunc
	onChange ChangeHook
}

var _ Controller = (*Manager)(nil)

// New returns a Manager. fs must be rooted at the directory holding the policy directories.
func New(fs afero.Fs, cfg Config, opts ...Option) *Manager {
	if cfg.Governor == "" {
		cfg.Governor = DefaultGovernor
	}

	m := &Manager{
		fs:      fs,
		cfg:     cfg,
		confirm: func(string) bool { return false },
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Manager) Policies() []Policy {
	return slices.Clone(m.cfg.Policies)
}

func (m *Manager) PresetConfig() PresetConfig {
	return m.cfg.Presets
}

func (m *Manager) PolicyExists(p Policy) bool {
	ok, err := afero.DirExists(m.fs, string(p))
	if err != nil {
		logger.Debug().Err(err).Str("policy", string(p)).Msg("Failed to stat policy directory")
		return false
	}

	return ok
}

func (m *Manager) AvailableFrequencies(p Policy) []Frequency {
	content, err := m.readFile(p, availableFrequenciesFile)
	if err != nil {
		logger.Warn().Err(err).Str("policy", string(p)).Msg("Failed to read available frequencies")
		return []Frequency{}
	}

	if content == "" {
		logger.Warn().Str("policy", string(p)).Msg("No available frequencies reported")
		return []Frequency{}
	}

	freqs, err := parseFrequencyList(content)
	if err != nil {
		logger.Warn().Err(err).Str("policy", string(p)).Msg("Failed to parse available frequencies")
		return []Frequency{}
	}

	slices.SortFunc(freqs, func(a, b Frequency) int {
		return cmp.Compare(b, a)
	})

	return freqs
}

func (m *Manager) CurrentFrequency(p Policy) (Frequency, bool) {
	content, err := m.readFile(p, currentFrequencyFile)
	if err != nil {
		logger.Warn().Err(err).Str("policy", string(p)).Msg("Failed to read current frequency")
		return 0, false
	}

	freq, err := ParseFrequency(content)
	if err != nil {
		logger.Warn().Err(err).Str("policy", string(p)).Msg("Failed to parse current frequency")
		return 0, false
	}

	return freq, true
}

func (m *Manager) CurrentGovernor(p Policy) (string, bool) {
	content, err := m.readFile(p, governorFile)
	if err != nil {
		logger.Warn().Err(err).Str("policy", string(p)).Msg("Failed to read governor")
		return "", false
	}

	return content, true
}

func (m *Manager) SetGovernor(p Policy, governor string) error {
	if err := m.writeFile(p, governorFile, governor); err != nil {
		logger.Error().Err(err).Str("policy", string(p)).Str("governor", governor).Msg("Failed to set governor")
		return errors.New().Wrap(ErrSetGovernor, err)
	}

	logger.Debug().Str("policy", string(p)).Str("governor", governor).Msg("Governor set")

	return nil
}

// SetFrequency switches the policy to the permissive governor if needed and writes freq.
// A frequency outside the available list is only written when the operator confirms it.
func (m *Manager) SetFrequency(p Policy, freq Frequency) error {
	errFactory := errors.New()

	if !slices.Contains(m.cfg.Policies, p) {
		err := errFactory.WithData(ErrUnknownPolicy, string(p))
		m.notify(Change{Policy: p, Requested: freq, Err: err})
		return err
	}

	governor, _ := m.CurrentGovernor(p)
	if governor != m.cfg.Governor {
		logger.Info().
			Str("policy", string(p)).
			Str("from", governor).
			Str("to", m.cfg.Governor).
			Msg("Switching governor")

		if err := m.SetGovernor(p, m.cfg.Governor); err != nil {
			m.notify(Change{Policy: p, Governor: governor, Requested: freq, Err: err})
			return err
		}
		governor = m.cfg.Governor
	}

	if available := m.AvailableFrequencies(p); len(available) > 0 && !slices.Contains(available, freq) {
		logger.Warn().
			Str("policy", string(p)).
			Int("frequency", int(freq)).
			Msg("Frequency is not in the available list")

		prompt := fmt.Sprintf("%d Hz is not available for %s (available: %s). Continue anyway?",
			int(freq), p, joinFrequencies(available))
		if !m.confirm(prompt) {
			err := errFactory.WithData(ErrFrequencyRejected, fmt.Sprintf("%s: %d", p, int(freq)))
			m.notify(Change{Policy: p, Governor: governor, Requested: freq, Err: err})
			return err
		}
	}

	if err := m.writeFile(p, setSpeedFile, strconv.Itoa(int(freq))); err != nil {
		logger.Error().Err(err).Str("policy", string(p)).Int("frequency", int(freq)).Msg("Failed to set frequency")
		wrapped := errFactory.Wrap(ErrSetFrequency, err)
		m.notify(Change{Policy: p, Governor: governor, Requested: freq, Err: wrapped})
		return wrapped
	}

	actual, ok := m.CurrentFrequency(p)
	if !ok || actual != freq {
		logger.Warn().
			Str("policy", string(p)).
			Int("target", int(freq)).
			Int("actual", int(actual)).
			Msg("Frequency after write differs from target")
	}

	logger.Info().Str("policy", string(p)).Int("frequency", int(freq)).Msg("Frequency set")
	m.notify(Change{Policy: p, Governor: governor, Requested: freq, Actual: actual, HasActual: ok})

	return nil
}

// SetAll applies freqs to the policies in declared order. Every policy is attempted
// even after a failure; the returned error joins all failures.
func (m *Manager) SetAll(freqs []Frequency) error {
	if len(freqs) != len(m.cfg.Policies) {
		return errors.New().WithData(ErrFrequencyCount,
			fmt.Sprintf("need %d frequencies, got %d", len(m.cfg.Policies), len(freqs)))
	}

	var errs []error
	for i, p := range m.cfg.Policies {
		logger.Info().Str("policy", string(p)).Int("frequency", int(freqs[i])).Msg("Setting frequency")
		if err := m.SetFrequency(p, freqs[i]); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
		}
	}

	return errors.Join(errs...)
}

func (m *Manager) notify(c Change) {
	if m.onChange != nil {
		m.onChange(c)
	}
}

func (m *Manager) readFile(p Policy, name string) (string, error) {
	data, err := afero.ReadFile(m.fs, filepath.Join(string(p), name))
	if err != nil {
		return "", errors.New().Wrap(ErrReadFailed, err)
	}

	return strings.TrimSpace(string(data)), nil
}

func (m *Manager) writeFile(p Policy, name, value string) error {
	f, err := m.fs.OpenFile(filepath.Join(string(p), name), os.O_WRONLY|os.O_TRUNC, defaultFilePerm)
	if err != nil {
		return errors.New().Wrap(ErrWriteFailed, err)
	}

	if _, err := f.WriteString(value); err != nil {
		f.Close()
		return errors.New().Wrap(ErrWriteFailed, err)
	}

	if err := f.Close(); err != nil {
		return errors.New().Wrap(ErrWriteFailed, err)
	}

	return nil
}

func joinFrequencies(freqs []Frequency) string {
	parts := make([]string, len(freqs))
	for i, f := range freqs {
		parts[i] = strconv.Itoa(int(f))
	}

	return strings.Join(parts, ", ")
}
