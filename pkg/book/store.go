package book

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Store manages persistence of a book to a YAML file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store for the given path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save persists the book to disk.
func (s *Store) Save(b *Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	b.Version = FormatVersion
	b.SavedAt = time.Now()

	data, err := yaml.Marshal(b)
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Load reads the book from disk and validates it.
// Returns nil, nil if the file doesn't exist (no book yet).
func (s *Store) Load() (*Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	b := &Book{}
	if err := yaml.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("parsing book %s: %w", s.path, err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("book %s: %w", s.path, err)
	}

	return b, nil
}

// Clear removes the book file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
