package cpufreq

// Controller reads and writes the scaling control files of a fixed set of policies.
type Controller interface {
	// Policies returns the configured policies in their declared order
	Policies() []Policy
	PolicyExists(p Policy) bool

	// Reads never fail; missing or malformed files yield an empty or absent value
	AvailableFrequencies(p Policy) []Frequency
	CurrentFrequency(p Policy) (Frequency, bool)
	CurrentGovernor(p Policy) (string, bool)

	// Writes
	SetGovernor(p Policy, governor string) error
	SetFrequency(p Policy, freq Frequency) error
	SetAll(freqs []Frequency) error

	// Presets
	Preset(name PresetName) ([]Frequency, error)
	PresetConfig() PresetConfig
}

// ConfirmFunc asks the operator to approve an unusual request.
type ConfirmFunc func(prompt string) bool

// ChangeHook observes every attempted frequency write.
type ChangeHook func(Change)

type (
	// Policy names a scaling domain directory, e.g. "policy0".
	Policy string

	// Frequency is a scaling frequency as written to the control files.
	Frequency int

	Change struct {
		Policy    Policy
		Governor  string
		Requested Frequency
		Actual    Frequency
		HasActual bool
		Err       error
	}
)

// Control file names inside a policy directory.
const (
	availableFrequenciesFile = "scaling_available_frequencies"
	currentFrequencyFile     = "scaling_cur_freq"
	governorFile             = "scaling_governor"
	setSpeedFile             = "scaling_setspeed"
)
