// Package token persists the bearer credential between process runs.
// The store is the only owner of the token; the request executor reads it
// on every call and clears it when the service answers 401.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fieldlex-client/internal/model"
)

type Store struct {
	path  string
	mu    sync.RWMutex
	token *model.Token
}

// NewStore loads any previously persisted token from path. A missing or
// unreadable file just means no token is held.
func NewStore(path string) *Store {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}

	var t model.Token
	if err := json.Unmarshal(data, &t); err != nil || t.AccessToken == "" {
		return s
	}

	s.token = &t
	return s
}

// Get returns the held token, if any.
func (s *Store) Get() (model.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == nil {
		return model.Token{}, false
	}
	return *s.token, true
}

// Set replaces the held token and flushes it to disk before returning.
func (s *Store) Set(t model.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}

	// Write-then-rename keeps a crash from leaving a truncated token file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace token file: %w", err)
	}

	s.token = &t
	return nil
}

// Clear drops the held token and removes the persisted copy.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
