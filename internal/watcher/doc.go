// Package watcher reloads aircraft files while wbadvisor is running.
//
// FileWatcher observes individual files through fsnotify watches on their
// parent directories, so editors that save by writing a temp file and
// renaming it over the original are still seen. Bursts of events are
// coalesced by a Debouncer before they reach the handler.
//
// ConfigWatcher builds on it: every change to the aircraft file is parsed
// and validated, and only a valid configuration replaces the one held by
// the aircraft.Source. A rejected file is logged and the previous
// configuration stays in use.
//
// Usage:
//
//	src := aircraft.NewSource(cfg)
//	w := watcher.NewConfigWatcher(path, src, watcher.DefaultOptions())
//	go func() { _ = w.Run(ctx) }()
package watcher
