package cpufreq

import (
	"fmt"

	"codeberg.org/mutker/cpufreqctl/internal/errors"
	"github.com/spf13/afero"
)

// CheckPrivileges fails unless euid belongs to root.
func CheckPrivileges(euid int) error {
	if euid != 0 {
		return errors.New().WithMessage(ErrPermissionDenied,
			"root privileges required, run with sudo")
	}

	return nil
}

// CheckBasePath fails when the cpufreq directory does not exist.
func CheckBasePath(fs afero.Fs, path string) error {
	ok, err := afero.DirExists(fs, path)
	if err != nil {
		return errors.New().Wrap(ErrBasePathMissing, err)
	}
	if !ok {
		return errors.New().WithMessage(ErrBasePathMissing,
			fmt.Sprintf("cpufreq directory does not exist: %s", path))
	}

	return nil
}
