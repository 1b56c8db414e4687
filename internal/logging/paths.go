package logging

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultLogDir returns ~/.wbadvisor/logs, or a temp directory when the home
// directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".wbadvisor", "logs")
	}
	return filepath.Join(home, ".wbadvisor", "logs")
}

// DefaultLogPath returns the log file path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "wbadvisor.log")
}

// FindLogFile returns explicit when it exists, otherwise the default log.
func FindLogFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
		return "", fmt.Errorf("log file not found: %s", explicit)
	}

	path := DefaultLogPath()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("no log file found; run with --debug first (expected at %s)", path)
}
