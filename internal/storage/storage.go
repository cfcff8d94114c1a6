package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is a JSON-file-backed key-value store. The whole map is kept in
// memory and rewritten to disk on every mutation; Set does not return until
// the new contents are synced and renamed into place, so a record that was
// reported as written survives a crash.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
}

// Open loads the store at path, creating parent directories as needed. A
// missing file yields an empty store. An unreadable one is an error: this
// store holds the encrypted wallet record, and silently discarding it on the
// next write would be unrecoverable.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	data := make(map[string]json.RawMessage)

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run
	case err != nil:
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	case len(raw) > 0:
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("storage file %s is corrupted: %w", path, err)
		}
	}

	return &Store{path: path, data: data}, nil
}

// Get returns the raw JSON value stored under key.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.data[key]
	return value, ok
}

// Set marshals value and durably stores it under key, replacing any
// previous value.
func (s *Store) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.data[key]
	s.data[key] = raw

	if err := s.save(); err != nil {
		// Keep the in-memory view consistent with the file
		if existed {
			s.data[key] = previous
		} else {
			delete(s.data, key)
		}
		return err
	}

	return nil
}

// Delete durably removes key. Removing an absent key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.data[key]
	if !existed {
		return nil
	}
	delete(s.data, key)

	if err := s.save(); err != nil {
		s.data[key] = previous
		return err
	}

	return nil
}

// save writes the map to a temp file, syncs it and renames it over the
// store path. Callers must hold s.mu.
func (s *Store) save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".storage-*")
	if err != nil {
		return fmt.Errorf("failed to create temp storage file: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to sync storage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close storage file: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to chmod storage file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace storage file: %w", err)
	}

	return nil
}
