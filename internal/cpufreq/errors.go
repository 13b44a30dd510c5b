package cpufreq

import "codeberg.org/mutker/cpufreqctl/internal/errors"

const (
	// Preflight Errors
	ErrPermissionDenied = errors.ErrorCode("cpufreq_permission_denied")
	ErrBasePathMissing  = errors.ErrorCode("cpufreq_base_path_missing")

	// Control File Errors
	ErrReadFailed  = errors.ErrorCode("cpufreq_read_failed")
	ErrParseFailed = errors.ErrorCode("cpufreq_parse_failed")
	ErrWriteFailed = errors.ErrorCode("cpufreq_write_failed")

	// Governor Errors
	ErrSetGovernor = errors.ErrorCode("cpufreq_set_governor_failed")

	// Frequency Errors
	ErrSetFrequency      = errors.ErrorCode("cpufreq_set_frequency_failed")
	ErrFrequencyRejected = errors.ErrorCode("cpufreq_frequency_rejected")
	ErrFrequencyCount    = errors.ErrorCode("cpufreq_frequency_count_mismatch")

	// Lookup Errors
	ErrUnknownPolicy = errors.ErrInvalidPolicy
	ErrUnknownPreset = errors.ErrInvalidPreset
)
