// Package storage provides the disks uploaded media is written to before it is attached to an item.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

var ErrObjectNotFound = errors.New("storage: object not found")

// Storage is a named place media objects can be written to and served from.
type Storage interface {
	Save(ctx context.Context, path string, contents io.Reader, options ...Option) error

	Get(ctx context.Context, path string) (io.ReadCloser, error)

	Exists(ctx context.Context, path string) (bool, error)

	Delete(ctx context.Context, path string) error

	// URL is the public address the platform will store as display_image.
	URL(path string) string
}

var ErrDiskNotFound = errors.New("storage: disk not found")

// DiskManager is a registry of named disks. The CLI registers one disk per
// run, chosen by MEDIA_DISK.
type DiskManager struct {
	mu    sync.RWMutex
	disks map[string]Storage
}

func NewDiskManager() *DiskManager {
	return &DiskManager{disks: make(map[string]Storage)}
}

func (dm *DiskManager) AddDisk(name string, disk Storage) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.disks[name] = disk
}

func (dm *DiskManager) GetDisk(name string) (Storage, error) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	if disk, ok := dm.disks[name]; ok {
		return disk, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrDiskNotFound, name)
}

func (dm *DiskManager) HasDisk(name string) bool {
	_, err := dm.GetDisk(name)
	return err == nil
}

// Visibility controls whether a stored object is world readable.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

type Option func(*Options)

// Options describe how an object is written.
type Options struct {
	ContentType  string
	Visibility   Visibility
	CacheControl string
	Metadata     map[string]string
}

func WithContentType(contentType string) Option {
	return func(o *Options) {
		o.ContentType = contentType
	}
}

func WithVisibility(v Visibility) Option {
	return func(o *Options) {
		o.Visibility = v
	}
}

// WithCacheMaxAge sets a Cache-Control max-age. Public objects are also
// marked cacheable by shared caches.
func WithCacheMaxAge(d time.Duration) Option {
	return func(o *Options) {
		o.CacheControl = fmt.Sprintf("max-age=%d", int64(d/time.Second))
	}
}

// WithMetadata attaches one key/value pair to the object.
func WithMetadata(key, value string) Option {
	return func(o *Options) {
		o.Metadata[key] = value
	}
}

func NewOptions(opts ...Option) *Options {
	o := &Options{
		Visibility: VisibilityPrivate,
		Metadata:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.Visibility == VisibilityPublic && o.CacheControl != "" {
		o.CacheControl = "public, " + o.CacheControl
	}
	return o
}

var (
	_ Storage = (*LocalStorage)(nil)
	_ Storage = (*MemoryStorage)(nil)
	_ Storage = (*S3Storage)(nil)
)
