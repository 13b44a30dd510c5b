package config

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}

// Action is the operation selected on the command line.
type Action int

const (
	ActionStatus Action = iota
	ActionSetAll
	ActionSetPolicy
	ActionPreset
	ActionInteractive
	ActionHistory
	// ActionDefault shows status plus a usage hint
	ActionDefault
	ActionHelp
)

// Writes reports whether the action may write control files.
func (a Action) Writes() bool {
	switch a {
	case ActionSetAll, ActionSetPolicy, ActionPreset, ActionInteractive:
		return true
	default:
		return false
	}
}

// Command holds the operation flags of a single run.
type Command struct {
	Status      bool
	Set         bool
	Frequencies []int
	Policy      string
	Freq        int
	Preset      string
	Interactive bool
	History     bool
	Help        bool
}

// Action resolves the flags in priority order: status, set, policy+freq, preset,
// interactive, history.
func (c Command) Action() Action {
	switch {
	case c.Help:
		return ActionHelp
	case c.Status:
		return ActionStatus
	case c.Set:
		return ActionSetAll
	case c.Policy != "" && c.Freq != 0:
		return ActionSetPolicy
	case c.Preset != "":
		return ActionPreset
	case c.Interactive:
		return ActionInteractive
	case c.History:
		return ActionHistory
	default:
		return ActionDefault
	}
}
