package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// MemoryObject is an object held by MemoryStorage.
type MemoryObject struct {
	Data    []byte
	Options Options
}

// MemoryStorage keeps objects in memory. Useful for tests and dry runs.
type MemoryStorage struct {
	baseURL string
	mu      sync.RWMutex
	objects map[string]MemoryObject
}

func NewMemoryStorage(baseURL string) *MemoryStorage {
	return &MemoryStorage{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		objects: make(map[string]MemoryObject),
	}
}

func (s *MemoryStorage) Save(ctx context.Context, path string, contents io.Reader, options ...Option) error {
	data, err := io.ReadAll(contents)
	if err != nil {
		return fmt.Errorf("failed to read contents: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = MemoryObject{Data: data, Options: *NewOptions(options...)}
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, path)
	}
	return io.NopCloser(bytes.NewReader(obj.Data)), nil
}

func (s *MemoryStorage) Exists(ctx context.Context, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[path]
	return ok, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	return nil
}

func (s *MemoryStorage) URL(path string) string {
	return s.baseURL + "/" + strings.TrimPrefix(path, "/")
}

// Object returns the stored object at path
func (s *MemoryStorage) Object(path string) (MemoryObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[path]
	return obj, ok
}

// Len returns the number of stored objects
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
