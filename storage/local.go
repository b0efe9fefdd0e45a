package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type LocalConfig struct {
	// BasePath is the directory objects are written under.
	BasePath string
	// BaseURL is where a static file server exposes BasePath.
	BaseURL string
}

// LocalStorage keeps uploads on the local filesystem. Writes go to a temp
// file first so a half-written upload is never visible under its final name.
type LocalStorage struct {
	root    string
	baseURL string
}

func NewLocalStorage(cfg LocalConfig) (*LocalStorage, error) {
	if cfg.BasePath == "" {
		return nil, fmt.Errorf("base path is required")
	}
	if err := os.MkdirAll(cfg.BasePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}
	baseURL := cfg.BaseURL
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStorage{root: cfg.BasePath, baseURL: baseURL}, nil
}

// objectPath maps a key to a file inside root; ".." segments cannot escape it.
func (s *LocalStorage) objectPath(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(cleanKey(key)))
}

func cleanKey(key string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+key)), "/")
}

func (s *LocalStorage) Save(ctx context.Context, key string, contents io.Reader, options ...Option) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts := NewOptions(options...)
	target := s.objectPath(key)

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, contents); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	mode := fs.FileMode(0o600)
	if opts.Visibility == VisibilityPublic {
		mode = 0o644
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

func (s *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.objectPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	info, err := os.Stat(s.objectPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check file: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.objectPath(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) URL(key string) string {
	if s.baseURL == "" {
		return "/" + cleanKey(key)
	}
	return s.baseURL + cleanKey(key)
}
