package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"codeberg.org/mutker/cpufreqctl/internal/cpufreq"
	"codeberg.org/mutker/cpufreqctl/internal/history"
)

const (
	statusPreviewCount = 5
	menuListCount      = 10
	ruleWidth          = 70
)

// Console renders controller state and drives the operator commands.
type Console struct {
	out    io.Writer
	prompt *Prompter
	ctl    cpufreq.Controller
}

func New(out io.Writer, prompt *Prompter, ctl cpufreq.Controller) *Console {
	return &Console{
		out:    out,
		prompt: prompt,
		ctl:    ctl,
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// ShowStatus prints governor, current and available frequencies of every policy.
func (c *Console) ShowStatus() {
	rule := strings.Repeat("=", ruleWidth)

	c.printf("\n%s\nCPU frequency status\n%s\n", rule, rule)

	for _, p := range c.ctl.Policies() {
		if !c.ctl.PolicyExists(p) {
			c.printf("\n%s: does not exist\n", p)
			continue
		}

		governor, govOK := c.ctl.CurrentGovernor(p)
		current, curOK := c.ctl.CurrentFrequency(p)
		available := c.ctl.AvailableFrequencies(p)

		c.printf("\n%s:\n", p)
		c.printf("   Governor:  %s\n", orNA(governor, govOK))
		c.printf("   Current:   %s\n", FormatFrequency(current, curOK))

		if len(available) > 0 {
			c.printf("   Available: %s\n", formatList(available[:min(len(available), statusPreviewCount)]))
			if len(available) > statusPreviewCount {
				c.printf("              ... %d frequencies total\n", len(available))
			}
		}
	}

	c.printf("\n%s\n", rule)
}

// Hint prints the usage hint shown when no command was given.
func (c *Console) Hint() {
	c.printf("\nTip: use --help to see all options\n")
}

// ApplyAll sets every policy and prints the outcome.
func (c *Console) ApplyAll(freqs []cpufreq.Frequency) error {
	policies := c.ctl.Policies()
	if len(freqs) == len(policies) {
		for i, p := range policies {
			c.printf("\nSetting %s to %s...\n", p, freqs[i])
		}
	}

	if err := c.ctl.SetAll(freqs); err != nil {
		c.printf("Error: %v\n", err)
		return err
	}

	return nil
}

// ApplyPreset derives and applies a preset without the summary confirmation.
func (c *Console) ApplyPreset(name cpufreq.PresetName) error {
	freqs, err := c.ctl.Preset(name)
	if err != nil {
		c.printf("Error: %v\n", err)
		return err
	}

	return c.ApplyAll(freqs)
}

// SetPolicy sets one policy and prints the outcome.
func (c *Console) SetPolicy(p cpufreq.Policy, freq cpufreq.Frequency) error {
	if err := c.ctl.SetFrequency(p, freq); err != nil {
		c.printf("Error: failed to set %s: %v\n", p, err)
		return err
	}

	c.printf("%s set successfully!\n", p)

	return nil
}

// ShowHistory prints recorded frequency changes, newest first.
func (c *Console) ShowHistory(entries []history.Entry, enabled bool) {
	if !enabled {
		c.printf("History recording is disabled (set history = true or pass --record)\n")
		return
	}

	if len(entries) == 0 {
		c.printf("No frequency changes recorded\n")
		return
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tPOLICY\tGOVERNOR\tREQUESTED\tACTUAL\tRESULT")
	for _, e := range entries {
		result := "ok"
		if !e.Success {
			result = "failed"
			if e.Error != "" {
				result += ": " + e.Error
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.Policy,
			orNA(e.Governor, true),
			e.Requested,
			FormatFrequency(cpufreq.Frequency(e.Actual), e.HasActual),
			result,
		)
	}
	w.Flush()
}
