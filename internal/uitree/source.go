package uitree

import (
	"fmt"
	"runtime"
)

// ErrUnsupported is returned when no native accessibility backend is registered.
var ErrUnsupported = fmt.Errorf("no accessibility backend for %s/%s; use --fixture for a dry run", runtime.GOOS, runtime.GOARCH)

// NewSourceFunc is set by platform-specific backends via init().
var NewSourceFunc func() (ElementSource, error)

// NewSource returns the native element source for the current OS.
func NewSource() (ElementSource, error) {
	if NewSourceFunc == nil {
		return nil, ErrUnsupported
	}
	return NewSourceFunc()
}
