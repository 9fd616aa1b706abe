package settings

import (
	"strings"
	"sync"

	errs "dealsniper/pkg/errors"
)

// Store holds the tracked search terms re-scanned on schedule. It is the
// single owner of the list; readers get copies.
type Store struct {
	mu      sync.RWMutex
	options []string
}

// NewStore creates a store seeded with the given terms
func NewStore(seed []string) *Store {
	s := &Store{}
	for _, term := range seed {
		_ = s.Append(term)
	}
	return s
}

// List returns a copy of the tracked terms in insertion order
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.options))
	copy(out, s.options)
	return out
}

// Append adds a term; duplicates are ignored
func (s *Store) Append(term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return errs.NewValidation("search option must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.options {
		if strings.EqualFold(existing, term) {
			return nil
		}
	}
	s.options = append(s.options, term)
	return nil
}

// Len returns the number of tracked terms
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.options)
}
