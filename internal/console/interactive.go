package console

import (
	"strconv"
	"strings"

	"codeberg.org/mutker/cpufreqctl/internal/cpufreq"
)

const mainMenu = `
Select an action:
1. Set frequency for all policies
2. Set frequency for a single policy
3. Apply a preset
4. Show status only
`

// Interactive shows the status and runs one menu action.
func (c *Console) Interactive() {
	c.ShowStatus()
	c.printf("%s", mainMenu)

	choice, err := c.prompt.Ask("\nSelect (1-4): ")
	if err != nil {
		return
	}

	switch choice {
	case "1":
		c.SetAllInteractive()
	case "2":
		c.SetSingleInteractive()
	case "3":
		c.PresetMenu()
	case "4":
		c.ShowStatus()
	default:
		c.printf("Invalid choice\n")
	}
}

// SetAllInteractive asks for one frequency per policy and applies them after confirmation.
func (c *Console) SetAllInteractive() {
	policies := c.ctl.Policies()
	freqs := make([]cpufreq.Frequency, 0, len(policies))

	for _, p := range policies {
		freq, ok := c.askFrequency(p)
		if !ok {
			return
		}
		freqs = append(freqs, freq)
	}

	c.confirmAndApply(freqs)
}

// SetSingleInteractive asks for a policy and a frequency and applies it.
func (c *Console) SetSingleInteractive() {
	policies := c.ctl.Policies()

	c.printf("\nSelect a policy:\n")
	for i, p := range policies {
		c.printf("  %d. %s\n", i+1, p)
	}

	input, err := c.prompt.Ask("Select (1-" + strconv.Itoa(len(policies)) + "): ")
	if err != nil {
		return
	}

	choice, err := strconv.Atoi(input)
	if err != nil {
		c.printf("Invalid input\n")
		return
	}
	if choice < 1 || choice > len(policies) {
		c.printf("Invalid choice\n")
		return
	}

	p := policies[choice-1]
	freq, ok := c.askFrequency(p)
	if !ok {
		return
	}

	if err := c.SetPolicy(p, freq); err == nil {
		c.ShowStatus()
	}
}

// PresetMenu offers the presets plus a custom entry that falls back to SetAllInteractive.
func (c *Console) PresetMenu() {
	performance := c.ctl.PresetConfig().Performance
	policies := c.ctl.Policies()
	values := make([]string, 0, len(policies))
	for i, p := range policies {
		if i < len(performance) {
			values = append(values, string(p)+": "+strconv.Itoa(int(performance[i])))
		}
	}

	c.printf("\nPresets:\n")
	c.printf("1. Performance (%s)\n", strings.Join(values, ", "))
	c.printf("2. Balanced (middle frequency)\n")
	c.printf("3. Powersave (lowest frequency)\n")
	c.printf("4. Custom\n")

	choice, err := c.prompt.Ask("Select (1-4): ")
	if err != nil {
		return
	}

	var name cpufreq.PresetName
	switch choice {
	case "1":
		name = cpufreq.PresetPerformance
	case "2":
		name = cpufreq.PresetBalanced
	case "3":
		name = cpufreq.PresetPowersave
	case "4":
		c.SetAllInteractive()
		return
	default:
		c.printf("Invalid choice\n")
		return
	}

	freqs, err := c.ctl.Preset(name)
	if err != nil {
		c.printf("Error: %v\n", err)
		return
	}

	c.confirmAndApply(freqs)
}

// askFrequency lists up to menuListCount available frequencies and reads either a
// literal frequency or a 1-based index into that list.
func (c *Console) askFrequency(p cpufreq.Policy) (cpufreq.Frequency, bool) {
	available := c.ctl.AvailableFrequencies(p)
	shown := available[:min(len(available), menuListCount)]

	prompt := "Enter frequency for " + string(p) + " (Hz): "
	if len(shown) == 0 {
		c.printf("No available frequency information for %s\n", p)
	} else {
		c.printf("\nAvailable frequencies for %s:\n", p)
		for i, f := range shown {
			c.printf("  %d. %s\n", i+1, f)
		}
		prompt = "Enter frequency for " + string(p) + " (Hz) or index: "
	}

	input, err := c.prompt.Ask(prompt)
	if err != nil {
		return 0, false
	}

	freq, err := cpufreq.ParseFrequency(input)
	if err != nil {
		c.printf("Invalid frequency value: %s\n", input)
		return 0, false
	}

	if idx := int(freq); idx >= 1 && idx <= len(shown) {
		return shown[idx-1], true
	}

	return freq, true
}

func (c *Console) confirmAndApply(freqs []cpufreq.Frequency) {
	c.printf("\nConfirm settings:\n")
	for i, p := range c.ctl.Policies() {
		if i < len(freqs) {
			c.printf("  %s: %s\n", p, freqs[i])
		}
	}

	if !c.prompt.Confirm("\nConfirm?") {
		c.printf("Cancelled\n")
		return
	}

	if err := c.ApplyAll(freqs); err != nil {
		c.printf("\nSome policies could not be set\n")
	} else {
		c.printf("\nDone!\n")
	}
	c.ShowStatus()
}
