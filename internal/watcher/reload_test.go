package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
)

func presetYAML(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "configs", "aircraft", name+".yaml"))
	require.NoError(t, err)
	return string(data)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestConfigWatcher_ReloadRejectsInvalidFile(t *testing.T) {
	// Given: a source holding a valid aircraft
	dir := t.TempDir()
	path := filepath.Join(dir, "plane.yaml")
	writeFile(t, path, presetYAML(t, "c182t"))
	cfg, err := aircraft.Load(path)
	require.NoError(t, err)
	src := aircraft.NewSource(cfg)
	w := NewConfigWatcher(path, src, DefaultOptions())

	// When: the file is replaced with an envelope that has a zero-width segment
	broken := strings.Replace(presetYAML(t, "c182t"), "{ weight: 2950, cg: 40.5 }", "{ weight: 2200, cg: 40.5 }", 1)
	writeFile(t, path, broken)
	err = w.Reload()

	// Then: the reload is refused and the old config is still served
	require.Error(t, err)
	assert.Equal(t, wberrors.ErrCodeAircraftInvalid, wberrors.GetCode(err))
	assert.Same(t, cfg, src.Get())
}

func TestConfigWatcher_ReloadSwapsValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plane.yaml")
	writeFile(t, path, presetYAML(t, "c182t"))
	cfg, err := aircraft.Load(path)
	require.NoError(t, err)
	src := aircraft.NewSource(cfg)

	var reloaded atomic.Int32
	w := NewConfigWatcher(path, src, DefaultOptions()).OnReload(func(*aircraft.Config) { reloaded.Add(1) })

	writeFile(t, path, presetYAML(t, "c182-reference"))
	require.NoError(t, w.Reload())

	assert.Equal(t, "c182-reference", src.Get().Name)
	assert.Equal(t, int32(1), reloaded.Load())
}

func TestConfigWatcher_RunPicksUpEditsAndStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Given: a running watcher on a valid file
	dir := t.TempDir()
	path := filepath.Join(dir, "plane.yaml")
	writeFile(t, path, presetYAML(t, "c182t"))
	cfg, err := aircraft.Load(path)
	require.NoError(t, err)
	src := aircraft.NewSource(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	w := NewConfigWatcher(path, src, Options{DebounceWindow: 20 * time.Millisecond})
	go func() { done <- w.Run(ctx) }()

	// When: the file is edited (repeatedly, until the watch is registered)
	require.Eventually(t, func() bool {
		writeFile(t, path, presetYAML(t, "c182-reference"))
		return src.Get().Name == "c182-reference"
	}, 5*time.Second, 100*time.Millisecond)

	// And: an invalid edit follows
	writeFile(t, path, "name: [")
	time.Sleep(200 * time.Millisecond)

	// Then: the last valid config is still served
	assert.Equal(t, "c182-reference", src.Get().Name)

	// And: cancelling stops the watcher without leaking goroutines
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	target := filepath.Join(dir, "plane.yaml")
	writeFile(t, target, "x")

	fw, err := NewFileWatcher([]string{target}, Options{DebounceWindow: 10 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	batches := make(chan []FileEvent, 16)
	done := make(chan error, 1)
	go func() {
		done <- fw.Run(ctx, func(b []FileEvent) { batches <- b })
	}()

	require.Eventually(t, func() bool {
		writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
		writeFile(t, target, "y")
		select {
		case b := <-batches:
			for _, e := range b {
				if filepath.Base(e.Path) != "plane.yaml" {
					return false
				}
			}
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
