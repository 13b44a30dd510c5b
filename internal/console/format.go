package console

import (
	"strings"

	"codeberg.org/mutker/cpufreqctl/internal/cpufreq"
)

const notAvailable = "N/A"

// FormatFrequency renders f, or N/A when the value is absent.
func FormatFrequency(f cpufreq.Frequency, ok bool) string {
	if !ok {
		return notAvailable
	}

	return f.String()
}

func formatList(freqs []cpufreq.Frequency) string {
	parts := make([]string, len(freqs))
	for i, f := range freqs {
		parts[i] = f.String()
	}

	return strings.Join(parts, ", ")
}

func orNA(s string, ok bool) string {
	if !ok || s == "" {
		return notAvailable
	}

	return s
}
