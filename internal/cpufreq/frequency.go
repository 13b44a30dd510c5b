package cpufreq

import (
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/mutker/cpufreqctl/internal/errors"
)

const (
	hzPerGHz = 1_000_000
	hzPerMHz = 1_000
)

// String renders the frequency in the larger fitting unit followed by the raw value.
func (f Frequency) String() string {
	if f >= hzPerGHz {
		return fmt.Sprintf("%.2f GHz (%d Hz)", float64(f)/hzPerGHz, int(f))
	}

	return fmt.Sprintf("%.2f MHz (%d Hz)", float64(f)/hzPerMHz, int(f))
}

// ParseFrequency parses a decimal frequency value.
func ParseFrequency(s string) (Frequency, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New().Wrap(ErrParseFailed, err)
	}

	return Frequency(v), nil
}

// parseFrequencyList parses whitespace separated frequencies.
func parseFrequencyList(s string) ([]Frequency, error) {
	fields := strings.Fields(s)
	freqs := make([]Frequency, 0, len(fields))
	for _, field := range fields {
		f, err := ParseFrequency(field)
		if err != nil {
			return nil, err
		}
		freqs = append(freqs, f)
	}

	return freqs, nil
}
