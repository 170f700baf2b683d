// Package localcache keeps a whole key-value mapping in memory and mirrors it to one JSON file.
//
// Every Set rewrites the entire file. There is no append log and no atomic rename, so a crash in
// the middle of a write can leave the file corrupt; the tool is a low-throughput batch job and
// accepts that. Entries are never evicted.
package localcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

var ErrKeyNotFound = errors.New("key not found in local cache")

type Store[V any] struct {
	path string
	mu   sync.RWMutex
	data map[string]V
}

// Open loads the mapping stored at path, creating the file with an empty mapping when absent.
func Open[V any](path string) (*Store[V], error) {
	s := &Store[V]{path: path, data: make(map[string]V)}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.flush(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read local cache %s: %w", path, err)
	}

	if err := json.Unmarshal(content, &s.data); err != nil {
		return nil, fmt.Errorf("parse local cache %s: %w", path, err)
	}
	if s.data == nil {
		s.data = make(map[string]V)
	}

	return s, nil
}

func (s *Store[V]) Path() string {
	return s.path
}

func (s *Store[V]) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.data[key]
	return ok
}

// Get returns ErrKeyNotFound for absent keys; callers are expected to check Has first.
func (s *Store[V]) Get(key string) (V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return value, nil
}

// Set updates the in-memory mapping and synchronously rewrites the backing file.
func (s *Store[V]) Set(key string, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.flush()
}

// Replace swaps the whole mapping in one write.
func (s *Store[V]) Replace(data map[string]V) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]V, len(data))
	for k, v := range data {
		s.data[k] = v
	}
	return s.flush()
}

// Snapshot returns a copy of the mapping.
func (s *Store[V]) Snapshot() map[string]V {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]V, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

func (s *Store[V]) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

func (s *Store[V]) flush() error {
	content, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local cache %s: %w", s.path, err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create local cache dir %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(s.path, content, 0o644); err != nil {
		return fmt.Errorf("write local cache %s: %w", s.path, err)
	}
	return nil
}
