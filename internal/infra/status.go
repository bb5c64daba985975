package infra

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/eliteGoblin/focusd/autopress/internal/domain"
)

// StatusFile implements domain.StatusStore using a hidden JSON file.
// The file name is derived from the user and hostname so each user on a
// machine gets their own heartbeat.
type StatusFile struct {
	path string
}

// NewStatusFile creates a status file in the OS temp directory.
func NewStatusFile() *StatusFile {
	hostname, _ := os.Hostname()
	hash := md5.Sum([]byte(fmt.Sprintf("autopress-status-%s-%d", hostname, os.Getuid())))
	filename := ".autopress_status_" + hex.EncodeToString(hash[:])[:8] + ".json"
	return &StatusFile{path: filepath.Join(os.TempDir(), filename)}
}

// NewStatusFileWithPath creates a status file at a specific path (for testing).
func NewStatusFileWithPath(path string) *StatusFile {
	return &StatusFile{path: path}
}

// Path returns the status file path.
func (s *StatusFile) Path() string {
	return s.path
}

// Write replaces the stored status under an exclusive lock.
func (s *StatusFile) Write(status domain.RunStatus) error {
	lockFile, err := os.OpenFile(s.path+".lock", os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() { _ = syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN) }()

	return s.atomicWrite(status)
}

// Read returns the stored status, or nil if no loop has published one.
func (s *StatusFile) Read() (*domain.RunStatus, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var status domain.RunStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("corrupt status file %s: %w", s.path, err)
	}
	return &status, nil
}

// Clear removes the status file. A missing file is not an error.
func (s *StatusFile) Clear() error {
	_ = os.Remove(s.path + ".lock")
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// atomicWrite writes the status via a per-process temp file and rename.
func (s *StatusFile) atomicWrite(status domain.RunStatus) error {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := fmt.Sprintf("%s.%d.tmp", s.path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// IsAlive reports whether the loop that wrote status is still running.
func IsAlive(status *domain.RunStatus, pm domain.ProcessManager) bool {
	if status == nil || status.State != domain.StateRunning.String() {
		return false
	}
	return pm.IsRunning(status.PID)
}

var _ domain.StatusStore = (*StatusFile)(nil)
