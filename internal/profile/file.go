package profile

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
)

const (
	documentVersion = 1

	// DefaultLockTimeout bounds how long a FileStore waits for another
	// process holding the profile lock.
	DefaultLockTimeout = 2 * time.Second

	lockRetryDelay = 25 * time.Millisecond
)

type document struct {
	Version  int       `json:"version"`
	Profiles []Profile `json:"profiles"`
}

// FileStore keeps profiles in a single JSON document. Writers hold an
// exclusive flock on <path>.lock and replace the document atomically.
type FileStore struct {
	path        string
	lockTimeout time.Duration

	// flock state is per handle; mu serialises goroutines sharing it.
	mu   sync.Mutex
	lock *flock.Flock
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store at path. The file is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:        path,
		lockTimeout: DefaultLockTimeout,
		lock:        flock.New(path + ".lock"),
	}
}

// WithLockTimeout sets how long operations wait for the lock.
func (s *FileStore) WithLockTimeout(d time.Duration) *FileStore {
	s.lockTimeout = d
	return s
}

// Path returns the document path.
func (s *FileStore) Path() string {
	return s.path
}

// Load implements Store. A missing file is an empty store.
func (s *FileStore) Load(ctx context.Context) ([]Profile, error) {
	var doc document
	err := s.withLock(ctx, false, func() error {
		var err error
		doc, err = s.read()
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc.Profiles, nil
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, p Profile) error {
	p, err := prepare(p)
	if err != nil {
		return err
	}

	return s.withLock(ctx, true, func() error {
		doc, err := s.read()
		if err != nil {
			return err
		}
		replaced := false
		for i := range doc.Profiles {
			if doc.Profiles[i].Name == p.Name {
				doc.Profiles[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			doc.Profiles = append(doc.Profiles, p)
		}
		return s.write(doc)
	})
}

// Delete implements Store.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	return s.withLock(ctx, true, func() error {
		doc, err := s.read()
		if err != nil {
			return err
		}
		kept := doc.Profiles[:0]
		for _, p := range doc.Profiles {
			if p.Name != name {
				kept = append(kept, p)
			}
		}
		if len(kept) == len(doc.Profiles) {
			return notFound(name)
		}
		doc.Profiles = kept
		return s.write(doc)
	})
}

// Close implements Store.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) withLock(ctx context.Context, exclusive bool, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return wberrors.StorageError("failed to create profile directory", err).WithDetail("path", s.path)
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = s.lock.TryLockContext(lockCtx, lockRetryDelay)
	} else {
		locked, err = s.lock.TryRLockContext(lockCtx, lockRetryDelay)
	}
	if err != nil || !locked {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return wberrors.New(wberrors.ErrCodeProfileLocked, "profile store is locked by another process", err).
			WithDetail("lock", s.lock.Path()).
			WithSuggestion("close other wbadvisor instances or retry")
	}
	defer func() { _ = s.lock.Unlock() }()

	return fn()
}

func (s *FileStore) read() (document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return document{Version: documentVersion}, nil
	}
	if err != nil {
		return document{}, wberrors.StorageError("failed to read profiles", err).WithDetail("path", s.path)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, wberrors.New(wberrors.ErrCodeProfileStoreCorrupt, "profile file is corrupt", err).
			WithDetail("path", s.path).
			WithSuggestion("move the file aside; a new one is created on the next save")
	}
	if doc.Version > documentVersion {
		return document{}, wberrors.New(wberrors.ErrCodeProfileStoreCorrupt, "profile file was written by a newer wbadvisor", nil).
			WithDetail("path", s.path)
	}

	for i := range doc.Profiles {
		doc.Profiles[i].Weights = doc.Profiles[i].Weights.Sanitize()
	}
	sortProfiles(doc.Profiles)
	return doc, nil
}

// write replaces the document via temp file and rename.
func (s *FileStore) write(doc document) error {
	doc.Version = documentVersion
	sortProfiles(doc.Profiles)
	if doc.Profiles == nil {
		doc.Profiles = []Profile{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return wberrors.InternalError("failed to marshal profiles", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return wberrors.StorageError("failed to create temp profile file", err).WithDetail("path", s.path)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return wberrors.StorageError("failed to write profiles", err).WithDetail("path", s.path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return wberrors.StorageError("failed to write profiles", err).WithDetail("path", s.path)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return wberrors.StorageError("failed to save profiles", err).WithDetail("path", s.path)
	}
	return nil
}

func sortProfiles(ps []Profile) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Name < ps[j].Name })
}
