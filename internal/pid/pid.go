package pid

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/cpufreqctl/internal/errors"
)

const (
	pidFile = "cpufreqctl.pid"
)

// Path returns the location of the PID file.
func Path() string {
	return filepath.Join(os.TempDir(), pidFile)
}

// Write records the current process ID, failing when another live process holds the file.
// Anything at the path that is not a regular file holding a PID is left untouched.
func Write() error {
	errFactory := errors.New()
	path := Path()

	info, err := os.Lstat(path)
	switch {
	case err == nil:
		if !info.Mode().IsRegular() {
			return errFactory.WithMessage(errors.ErrInternal,
				fmt.Sprintf("PID file is not a regular file: %s", path))
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return errFactory.Wrap(errors.ErrInternal, err)
		}

		running, err := isRunning(strings.TrimSpace(string(data)))
		if err != nil {
			return errFactory.Wrap(errors.ErrInternal, err)
		}
		if running {
			return errFactory.WithData(errors.ErrAlreadyRunning, path)
		}

		// Stale
		if err := os.Remove(path); err != nil {
			return errFactory.Wrap(errors.ErrInternal, err)
		}
	case !os.IsNotExist(err):
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return errFactory.WithData(errors.ErrAlreadyRunning, path)
		}
		return errFactory.Wrap(errors.ErrInternal, err)
	}
	defer f.Close()

	if _, err := f.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove removes the PID file.
func Remove() error {
	errFactory := errors.New()

	if err := os.Remove(Path()); err != nil && !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

func isRunning(content string) (bool, error) {
	pid, err := strconv.Atoi(content)
	if err != nil {
		return false, fmt.Errorf("invalid PID file content %q: %w", content, err)
	}
	if pid <= 0 {
		return false, fmt.Errorf("invalid PID %d", pid)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, err
	}

	return process.Signal(syscall.Signal(0)) == nil, nil
}
