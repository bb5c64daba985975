package infra

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return expandHomeWith(home, path)
}

func expandHomeWith(home, path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		return home
	}
	return path
}

// Exists checks if a path exists after home expansion.
func Exists(path string) bool {
	_, err := os.Stat(ExpandHome(path))
	return err == nil
}
