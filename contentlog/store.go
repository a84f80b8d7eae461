package contentlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store persists lists of strings under string keys.
type Store interface {
	// Get returns the list stored under key, or nil when the key is absent.
	Get(key string) ([]string, error)
	// Set replaces the list stored under key.
	Set(key string, values []string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

// FileStore keeps every key in a single JSON document on disk.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore returns a FileStore backed by path. The file and its directory are created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := s.load()
	if err != nil {
		return nil, err
	}
	return data[key], nil
}

func (s *FileStore) Set(key string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return err
	}
	data[key] = values
	return s.save(data)
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return s.save(data)
}

func (s *FileStore) load() (map[string][]string, error) {
	data := make(map[string][]string)
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if len(b) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	return data, nil
}

// save writes to a temporary file first so a crash never leaves a truncated document behind.
func (s *FileStore) save(data map[string][]string) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// MemoryStore is a Store that lives only as long as the process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]string)}
}

func (s *MemoryStore) Get(key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), values...), nil
}

func (s *MemoryStore) Set(key string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]string(nil), values...)
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
