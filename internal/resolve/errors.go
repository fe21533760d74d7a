package resolve

import (
	"errors"
	"fmt"
)

// ErrHostRefused indicates the host reported a call as failed by returning a
// false or nil value. The scripting surface gives no further detail.
var ErrHostRefused = errors.New("host refused the operation")

// ErrNoProject indicates no project is open in the host.
var ErrNoProject = errors.New("no project is open")

// ErrNoTimeline indicates the current project has no open timeline.
var ErrNoTimeline = errors.New("no timeline is open")

// ErrNotConnected indicates the host connection was closed or never opened.
var ErrNotConnected = errors.New("not connected to host")

// Refused wraps ErrHostRefused with the failing operation name.
func Refused(op string) error {
	return fmt.Errorf("%s: %w", op, ErrHostRefused)
}
