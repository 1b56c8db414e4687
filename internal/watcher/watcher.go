package watcher

import "time"

// Operation represents a file system operation type.
type Operation int

const (
	// OpCreate indicates the file appeared.
	OpCreate Operation = iota
	// OpModify indicates the file was written or replaced.
	OpModify
	// OpDelete indicates the file is gone.
	OpDelete
	// OpRename indicates the file was moved away.
	OpRename
)

// String returns a human-readable representation of the operation.
func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpModify:
		return "MODIFY"
	case OpDelete:
		return "DELETE"
	case OpRename:
		return "RENAME"
	default:
		return "UNKNOWN"
	}
}

// Removed reports whether the file no longer exists at its path.
func (op Operation) Removed() bool {
	return op == OpDelete || op == OpRename
}

// FileEvent is one change to a watched file.
type FileEvent struct {
	Path      string
	Operation Operation
	Timestamp time.Time
}

// Options configures the watcher behavior.
type Options struct {
	// DebounceWindow is the quiet period before coalesced events are emitted.
	// Default: 250ms
	DebounceWindow time.Duration
}

// DefaultOptions returns the default watcher options.
func DefaultOptions() Options {
	return Options{DebounceWindow: 250 * time.Millisecond}
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = DefaultOptions().DebounceWindow
	}
	return o
}
