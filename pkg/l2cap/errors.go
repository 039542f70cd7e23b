package l2cap

import (
	"errors"
	"fmt"
)

// ErrIncompleteSend is returned when a send accepted fewer bytes than
// requested.
var ErrIncompleteSend = errors.New("l2cap: incomplete send")

// SetupError reports which stage of socket setup failed, so callers
// can tell an unbindable address from a missing protocol or a
// rejected security level.
type SetupError struct {
	Step string // "socket", "security", "bind", "listen" or "connect"
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("l2cap: %s: %v", e.Step, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
