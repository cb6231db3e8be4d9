package worker

import "time"

// validationError signals a malformed or missing input field for 400 mapping.
type validationError struct{ msg string }

func (e validationError) Error() string { return e.msg }

// ErrValidation constructs a validation error.
func ErrValidation(msg string) error { return validationError{msg: msg} }

// IsValidation reports whether err indicates bad job input (return 400).
func IsValidation(err error) bool {
	_, ok := err.(validationError)
	return ok
}

// busyError signals queue timeout/overflow for 429 mapping.
type busyError struct{}

func (busyError) Error() string { return "worker busy: generation slot unavailable" }

// ErrBusy constructs a busy error.
func ErrBusy() error { return busyError{} }

// IsBusy reports whether err indicates backpressure (return 429).
func IsBusy(err error) bool {
	_, ok := err.(busyError)
	return ok
}

// unavailableError signals missing weights or a dead runtime so the HTTP
// layer can return 503 instead of 500.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// ErrUnavailable constructs an unavailableError.
func ErrUnavailable(msg string) error { return unavailableError{msg: msg} }

// IsUnavailable reports whether err indicates the runtime cannot serve yet.
func IsUnavailable(err error) bool {
	_, ok := err.(unavailableError)
	return ok
}

// timeoutError signals that a generation exceeded the execution timeout.
type timeoutError struct{ limit time.Duration }

func (e timeoutError) Error() string {
	return "generation exceeded execution timeout of " + e.limit.String()
}

// ErrTimeout constructs a timeout error for the given limit.
func ErrTimeout(limit time.Duration) error { return timeoutError{limit: limit} }

// IsTimeout reports whether err indicates an execution timeout (return 504).
func IsTimeout(err error) bool {
	_, ok := err.(timeoutError)
	return ok
}
