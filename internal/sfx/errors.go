package sfx

import (
	"errors"

	"github.com/llehouerou/soundfx/internal/errmsg"
)

var (
	// ErrResourceNotFound is matched when a sound is not in its bundle.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrDecodeFailed is matched when the engine rejects a sound's data.
	ErrDecodeFailed = errors.New("decode failed")
)

// Error describes a failed sound load. It matches its Kind with
// errors.Is and unwraps to the underlying cause. Kind is nil when the
// bundle failed for another reason than a missing name (I/O, permissions);
// the cause is then only reachable through Unwrap.
type Error struct {
	Op     errmsg.Op
	Name   string
	Bundle string
	Kind   error // ErrResourceNotFound or ErrDecodeFailed
	Err    error
}

func (e *Error) Error() string {
	return errmsg.FormatWith(e.Op, e.Name, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return e.Kind != nil && target == e.Kind }
