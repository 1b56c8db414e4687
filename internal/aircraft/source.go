package aircraft

import "sync/atomic"

// Source holds the current aircraft configuration for long-lived hosts.
// Readers take one snapshot per computation; reloads replace the pointer.
type Source struct {
	current atomic.Pointer[Config]
}

// NewSource creates a Source holding cfg.
func NewSource(cfg *Config) *Source {
	s := &Source{}
	s.current.Store(cfg)
	return s
}

// Get returns the current configuration.
func (s *Source) Get() *Config {
	return s.current.Load()
}

// Swap installs cfg and returns the previous configuration.
func (s *Source) Swap(cfg *Config) *Config {
	return s.current.Swap(cfg)
}
