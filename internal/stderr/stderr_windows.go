//go:build windows

package stderr

import (
	"errors"
	"os"
)

// Start reports errors.ErrUnsupported: Windows audio output does not
// write to fd 2, so there is nothing to forward to sink.
func Start(func(line string)) error {
	return errors.ErrUnsupported
}

func WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

func Stop() {}
