package readiness

import (
	"errors"
	"fmt"
)

// ErrNotReady is matched by every StartupError via errors.Is.
var ErrNotReady = errors.New("dependency not ready")

// StartupError is returned when a gate ends without a live connection.
// It is fatal: callers must not begin serving traffic.
type StartupError struct {
	Dependency string
	Attempts   int
	Err        error
}

func (e *StartupError) Error() string {
	msg := fmt.Sprintf("dependency not ready after %d attempts", e.Attempts)
	if e.Dependency != "" {
		msg = fmt.Sprintf("%s %s", e.Dependency, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

func (e *StartupError) Is(target error) bool {
	return target == ErrNotReady
}
