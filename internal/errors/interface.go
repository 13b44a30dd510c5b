package errors

// ErrorCode identifies a failure class, e.g. "cpufreq_write_failed".
type ErrorCode string

// Error is a coded error. Two Errors match with Is when the target is a bare
// error of the same code, so callers can test against Factory.New(code).
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
	Is(target error) bool
}

// Factory builds coded errors.
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
