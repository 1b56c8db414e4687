package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupUserConfig_NoConfig_ReturnsEmpty(t *testing.T) {
	isolate(t)

	path, err := BackupUserConfig()

	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestBackupFile_KeepsNewestBackups(t *testing.T) {
	// Given: an existing config
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("version: 1\n"), 0o644))

	// When: backing up more than MaxBackups times
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var created []string
	for i := 0; i < MaxBackups+2; i++ {
		p, err := backupFile(configPath, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		created = append(created, p)
	}

	// Then: only the newest MaxBackups remain, newest first
	backups, err := ListBackups(configPath)
	require.NoError(t, err)
	require.Len(t, backups, MaxBackups)
	assert.Equal(t, created[len(created)-1], backups[0])

	data, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Equal(t, "version: 1\n", string(data))
}

func TestListBackups_MissingDir_ReturnsNil(t *testing.T) {
	backups, err := ListBackups(filepath.Join(t.TempDir(), "nope", "config.yaml"))

	require.NoError(t, err)
	assert.Nil(t, backups)
}
