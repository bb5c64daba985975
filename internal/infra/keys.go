package infra

import (
	"context"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/term"
)

const (
	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

func isQuitKey(b byte) bool {
	switch b {
	case 'q', 'Q', keyEscape, keyCtrlC:
		return true
	}
	return false
}

// ListenForQuit puts the terminal on in into raw mode and calls cancel when
// q, Esc or Ctrl-C is pressed. It is a no-op when in is not a terminal.
// The returned function restores the terminal and is safe to call twice.
func ListenForQuit(in *os.File, cancel context.CancelFunc, logger *zap.Logger) func() {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return func() {}
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		logger.Warn("failed to enable raw terminal, key cancel disabled", zap.Error(err))
		return func() {}
	}

	go watchKeys(in, cancel)

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := term.Restore(fd, state); err != nil {
				logger.Warn("failed to restore terminal", zap.Error(err))
			}
		})
	}
}

// watchKeys reads r until a quit key or EOF. It reports whether cancel was called.
func watchKeys(r io.Reader, cancel context.CancelFunc) bool {
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			if isQuitKey(b) {
				cancel()
				return true
			}
		}
		if err != nil {
			return false
		}
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
