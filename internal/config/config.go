package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"codeberg.org/mutker/cpufreqctl/internal/cpufreq"
	"codeberg.org/mutker/cpufreqctl/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultBasePath     = "/sys/devices/system/cpu/cpufreq"
	DefaultGovernor     = "userspace"
	DefaultLogLevel     = "warning"
	DefaultHistoryDB    = "/var/lib/cpufreqctl/history.db"
	DefaultHistoryLimit = 20

	envPrefix     = "CPUFREQCTL"
	configEnv     = envPrefix + "_CONFIG"
	configName    = "cpufreqctl"
	configType    = "toml"
	defaultConfig = "/etc"
)

var (
	DefaultPolicies    = []string{"policy0", "policy4", "policy7"}
	DefaultPerformance = []int{1958400, 2400000, 2707200}
)

type Presets struct {
	Performance       []int `mapstructure:"performance"`
	BalancedFallback  int   `mapstructure:"balanced_fallback"`
	PowersaveFallback int   `mapstructure:"powersave_fallback"`
}

type Config struct {
	BasePath     string   `mapstructure:"base_path"`
	Policies     []string `mapstructure:"policies"`
	Governor     string   `mapstructure:"governor"`
	LogLevel     string   `mapstructure:"log_level"`
	History      bool     `mapstructure:"history"`
	HistoryDB    string   `mapstructure:"history_db"`
	HistoryLimit int      `mapstructure:"history_limit"`
	Presets      Presets  `mapstructure:"presets"`

	Command Command `mapstructure:"-"`
}

// Load builds the configuration from defaults, the TOML config file, the
// environment and args, in increasing order of precedence.
func Load(args []string) (*Config, error) {
	errFactory := errors.New()
	v := viper.New()
	setDefaults(v)

	cfg := &Config{}
	fv := &flagValues{}
	flags := newFlagSet(&cfg.Command, fv, os.Getenv(configEnv))

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			cfg.Command.Help = true
			return cfg, nil
		}
		return nil, errFactory.Wrap(errors.ErrParseFlags, err)
	}

	if cfg.Command.Set {
		freqs, err := parseFrequencies(flags.Args())
		if err != nil {
			return nil, errFactory.Wrap(errors.ErrParseFlags, err)
		}
		cfg.Command.Frequencies = freqs
	} else if flags.NArg() > 0 {
		return nil, errFactory.WithMessage(errors.ErrParseFlags,
			fmt.Sprintf("unexpected arguments: %s (use --set to apply frequencies)", strings.Join(flags.Args(), " ")))
	}

	if fv.configPath != "" {
		v.SetConfigFile(fv.configPath)
		v.SetConfigType(configType)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(defaultConfig)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range map[string]string{
		"log_level": "log-level",
		"base_path": "base-path",
		"history":   "record",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}
	if fv.debug {
		v.Set("log_level", string(LogLevelDebug))
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_path", DefaultBasePath)
	v.SetDefault("policies", DefaultPolicies)
	v.SetDefault("governor", DefaultGovernor)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("history", false)
	v.SetDefault("history_db", DefaultHistoryDB)
	v.SetDefault("history_limit", DefaultHistoryLimit)
	v.SetDefault("presets.performance", DefaultPerformance)
	v.SetDefault("presets.balanced_fallback", 1500000)
	v.SetDefault("presets.powersave_fallback", 800000)
}

// Validate checks the loaded values and the command flags against them.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.BasePath == "" {
		return errFactory.WithData(errors.ErrInvalidConfig, "base_path must not be empty")
	}

	if len(c.Policies) == 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "at least one policy is required")
	}

	if c.Governor == "" {
		return errFactory.WithData(errors.ErrInvalidConfig, "governor must not be empty")
	}

	if len(c.Presets.Performance) != len(c.Policies) {
		return errFactory.WithData(errors.ErrInvalidConfig,
			fmt.Sprintf("presets.performance needs %d values, got %d", len(c.Policies), len(c.Presets.Performance)))
	}

	if c.History && c.HistoryDB == "" {
		return errFactory.WithData(errors.ErrInvalidConfig, "history_db must not be empty")
	}

	if c.Command.Policy != "" && !slices.Contains(c.Policies, c.Command.Policy) {
		return errFactory.WithData(errors.ErrInvalidPolicy, c.Command.Policy)
	}

	if c.Command.Preset != "" {
		if _, err := cpufreq.ParsePreset(c.Command.Preset); err != nil {
			return err
		}
	}

	return nil
}

// parseFrequencies accepts positional values, each optionally comma separated.
func parseFrequencies(args []string) ([]int, error) {
	var freqs []int
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			f, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("invalid frequency %q", field)
			}
			freqs = append(freqs, f)
		}
	}

	return freqs, nil
}

// ManagerConfig converts the loaded values for cpufreq.New.
func (c *Config) ManagerConfig() cpufreq.Config {
	policies := make([]cpufreq.Policy, len(c.Policies))
	for i, p := range c.Policies {
		policies[i] = cpufreq.Policy(p)
	}

	return cpufreq.Config{
		Policies: policies,
		Governor: c.Governor,
		Presets: cpufreq.PresetConfig{
			Performance:       toFrequencies(c.Presets.Performance),
			BalancedFallback:  cpufreq.Frequency(c.Presets.BalancedFallback),
			PowersaveFallback: cpufreq.Frequency(c.Presets.PowersaveFallback),
		},
	}
}

// SetFrequencies returns the --set values as frequencies.
func (c *Config) SetFrequencies() []cpufreq.Frequency {
	return toFrequencies(c.Command.Frequencies)
}

func toFrequencies(values []int) []cpufreq.Frequency {
	freqs := make([]cpufreq.Frequency, len(values))
	for i, v := range values {
		freqs[i] = cpufreq.Frequency(v)
	}

	return freqs
}
