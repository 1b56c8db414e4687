package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
)

const (
	// MaxBackups is the number of user config backups kept.
	MaxBackups = 3

	// BackupSuffix separates the config name from the backup timestamp.
	BackupSuffix = ".bak"
)

// BackupUserConfig copies the user config to a timestamped sibling before
// `config init --force` overwrites it. Returns "" when there is nothing to
// back up.
func BackupUserConfig() (string, error) {
	return backupFile(GetUserConfigPath(), time.Now())
}

func backupFile(configPath string, now time.Time) (string, error) {
	if !fileExists(configPath) {
		return "", nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return "", wberrors.ConfigError("failed to read config for backup", err).WithDetail("path", configPath)
	}

	backupPath := fmt.Sprintf("%s%s.%s", configPath, BackupSuffix, now.Format("20060102-150405"))
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", wberrors.ConfigError("failed to write config backup", err).WithDetail("path", backupPath)
	}

	// Best effort; the backup itself succeeded.
	_ = pruneBackups(configPath)

	return backupPath, nil
}

// ListBackups returns the backups of configPath, newest first.
func ListBackups(configPath string) ([]string, error) {
	dir := filepath.Dir(configPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, wberrors.ConfigError("failed to list config directory", err).WithDetail("path", dir)
	}

	prefix := filepath.Base(configPath) + BackupSuffix + "."
	var backups []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			backups = append(backups, filepath.Join(dir, entry.Name()))
		}
	}

	// Timestamps sort lexically.
	sort.Sort(sort.Reverse(sort.StringSlice(backups)))
	return backups, nil
}

func pruneBackups(configPath string) error {
	backups, err := ListBackups(configPath)
	if err != nil {
		return err
	}
	if len(backups) <= MaxBackups {
		return nil
	}
	for _, b := range backups[MaxBackups:] {
		_ = os.Remove(b)
	}
	return nil
}
