package daemon

import (
	"os"
	"os/exec"
	"syscall"
)

// DetachFlag is stripped from the argument list before self-exec.
const DetachFlag = "--detach"

// StartDetached re-executes the current binary with args in a new session,
// so the scan loop keeps running after the launching terminal closes.
// It returns the child PID.
func StartDetached(args []string) (int, error) {
	return StartDetachedWithPath("", args)
}

// StartDetachedWithPath is StartDetached with an explicit binary path
// (empty means os.Executable).
func StartDetachedWithPath(executable string, args []string) (int, error) {
	if executable == "" {
		var err error
		executable, err = os.Executable()
		if err != nil {
			return 0, err
		}
	}

	cmd := exec.Command(executable, DetachedArgs(args)...)

	// Detach from parent process
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true, // Create new session (detach from terminal)
	}

	// No stdin/stdout/stderr - fully detached
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	_ = cmd.Process.Release()
	return pid, nil
}

// DetachedArgs returns args without the detach flag so the child runs in the foreground.
func DetachedArgs(args []string) []string {
	result := make([]string, 0, len(args))
	for _, a := range args {
		if a == DetachFlag || a == DetachFlag+"=true" {
			continue
		}
		result = append(result, a)
	}
	return result
}
