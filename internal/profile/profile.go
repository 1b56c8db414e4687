// Package profile persists named payload snapshots.
//
// Two backends implement Store: FileStore keeps every profile in one JSON
// document guarded by a cross-process lock, SQLiteStore keeps them in a
// single table. Saving a profile under an existing name replaces it.
package profile

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Aman-CERP/wbadvisor/internal/config"
	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
	"github.com/Aman-CERP/wbadvisor/internal/payload"
)

// MaxNameLength is the longest accepted profile name, in characters.
const MaxNameLength = 64

// Profile is a named payload.
type Profile struct {
	Name    string        `json:"name"`
	Weights payload.State `json:"weights"`
	SavedAt time.Time     `json:"saved_at"`
}

// Store persists profiles. Implementations are safe for concurrent use.
type Store interface {
	// Load returns all profiles sorted by name.
	Load(ctx context.Context) ([]Profile, error)
	// Save inserts p or replaces the profile with the same name.
	Save(ctx context.Context, p Profile) error
	// Delete removes a profile; ERR_404 when it does not exist.
	Delete(ctx context.Context, name string) error
	Close() error
}

// Open returns the store selected by configuration.
func Open(cfg config.ProfilesConfig) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.ProfilePath())
	case config.BackendFile, "":
		return NewFileStore(cfg.ProfilePath()), nil
	default:
		return nil, wberrors.New(wberrors.ErrCodeConfigInvalid,
			fmt.Sprintf("unknown profile backend %q", cfg.Backend), nil)
	}
}

// ValidateName checks a profile name and returns it trimmed.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalidName(name, "profile name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", invalidName(name, fmt.Sprintf("profile name too long (max %d characters)", MaxNameLength))
	}
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return "", invalidName(name, "profile name contains non-printable characters")
		}
	}
	return name, nil
}

func invalidName(name, msg string) error {
	return wberrors.New(wberrors.ErrCodeInvalidProfileName, msg, nil).WithDetail("name", name)
}

// Find returns the profile with the given name.
func Find(profiles []Profile, name string) (Profile, bool) {
	name = strings.TrimSpace(name)
	for _, p := range profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// Get loads all profiles from s and returns the named one.
func Get(ctx context.Context, s Store, name string) (Profile, error) {
	profiles, err := s.Load(ctx)
	if err != nil {
		return Profile{}, err
	}
	p, ok := Find(profiles, name)
	if !ok {
		return Profile{}, notFound(name)
	}
	return p, nil
}

func notFound(name string) error {
	return wberrors.New(wberrors.ErrCodeProfileNotFound,
		fmt.Sprintf("profile %q not found", name), nil).
		WithSuggestion("run 'wbadvisor profile list' to see saved profiles")
}

// prepare validates p and fills defaults before it is written.
func prepare(p Profile) (Profile, error) {
	name, err := ValidateName(p.Name)
	if err != nil {
		return Profile{}, err
	}
	p.Name = name
	p.Weights = p.Weights.Sanitize()
	if p.SavedAt.IsZero() {
		p.SavedAt = time.Now()
	}
	p.SavedAt = p.SavedAt.UTC().Round(0)
	return p, nil
}
