package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		first    Operation
		next     Operation
		wantOp   Operation
		wantKeep bool
	}{
		{"create then modify", OpCreate, OpModify, OpCreate, true},
		{"create then delete", OpCreate, OpDelete, 0, false},
		{"create then rename", OpCreate, OpRename, 0, false},
		{"delete then create", OpDelete, OpCreate, OpModify, true},
		{"rename then create", OpRename, OpCreate, OpModify, true},
		{"modify then delete", OpModify, OpDelete, OpDelete, true},
		{"modify then modify", OpModify, OpModify, OpModify, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, keep := merge(tt.first, tt.next)
			assert.Equal(t, tt.wantKeep, keep)
			if keep {
				assert.Equal(t, tt.wantOp, op)
			}
		})
	}
}

func TestDebouncer_CoalescesBurstIntoOneBatch(t *testing.T) {
	// Given: an editor-style save (remove, create, write) on one file
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	// When: the events arrive within the window
	d.Add(FileEvent{Path: "/a/plane.yaml", Operation: OpDelete})
	d.Add(FileEvent{Path: "/a/plane.yaml", Operation: OpCreate})
	d.Add(FileEvent{Path: "/a/plane.yaml", Operation: OpModify})
	d.Add(FileEvent{Path: "/a/other.yaml", Operation: OpModify})

	// Then: one sorted batch reports a single modify per path
	select {
	case batch := <-d.Output():
		require.Len(t, batch, 2)
		assert.Equal(t, "/a/other.yaml", batch[0].Path)
		assert.Equal(t, "/a/plane.yaml", batch[1].Path)
		assert.Equal(t, OpModify, batch[1].Operation)
	case <-time.After(2 * time.Second):
		t.Fatal("no batch emitted")
	}
}

func TestDebouncer_CancelledEventsEmitNothing(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	defer d.Stop()

	d.Add(FileEvent{Path: "/tmp/x", Operation: OpCreate})
	d.Add(FileEvent{Path: "/tmp/x", Operation: OpDelete})

	select {
	case batch := <-d.Output():
		t.Fatalf("unexpected batch %v", batch)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncer_StopClosesOutputAndIgnoresAdds(t *testing.T) {
	d := NewDebouncer(time.Hour)
	d.Add(FileEvent{Path: "/tmp/x", Operation: OpModify})

	d.Stop()
	d.Stop()
	d.Add(FileEvent{Path: "/tmp/y", Operation: OpModify})

	_, ok := <-d.Output()
	assert.False(t, ok)
}

func TestOperation_String(t *testing.T) {
	assert.Equal(t, "CREATE", OpCreate.String())
	assert.Equal(t, "MODIFY", OpModify.String())
	assert.Equal(t, "DELETE", OpDelete.String())
	assert.Equal(t, "RENAME", OpRename.String())
	assert.Equal(t, "UNKNOWN", Operation(42).String())
	assert.True(t, OpRename.Removed())
	assert.False(t, OpModify.Removed())
}

func TestOptions_WithDefaults(t *testing.T) {
	assert.Equal(t, DefaultOptions(), Options{}.WithDefaults())
	assert.Equal(t, time.Second, Options{DebounceWindow: time.Second}.WithDefaults().DebounceWindow)
}
