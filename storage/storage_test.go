package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskManager(t *testing.T) {
	dm := NewDiskManager()
	assert.False(t, dm.HasDisk("memory"))
	_, err := dm.GetDisk("memory")
	assert.Error(t, err)

	dm.AddDisk("memory", NewMemoryStorage("https://media.example.org"))
	assert.True(t, dm.HasDisk("memory"))
	disk, err := dm.GetDisk("memory")
	require.NoError(t, err)
	assert.Equal(t, "https://media.example.org/a/b.jpg", disk.URL("a/b.jpg"))
}

func testDisk(t *testing.T, disk Storage) {
	ctx := context.Background()

	exists, err := disk.Exists(ctx, "vendor/1/photo.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, disk.Save(ctx, "vendor/1/photo.jpg", strings.NewReader("jpeg bytes"), WithContentType("image/jpeg")))

	exists, err = disk.Exists(ctx, "vendor/1/photo.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := disk.Get(ctx, "vendor/1/photo.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	require.NoError(t, disk.Delete(ctx, "vendor/1/photo.jpg"))
	_, err = disk.Get(ctx, "vendor/1/photo.jpg")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.NoError(t, disk.Delete(ctx, "vendor/1/photo.jpg"), "deleting twice is fine")
}

func TestMemoryStorage(t *testing.T) {
	testDisk(t, NewMemoryStorage("https://media.example.org/"))
}

func TestLocalStorage(t *testing.T) {
	disk, err := NewLocalStorage(LocalConfig{BasePath: t.TempDir(), BaseURL: "https://media.example.org"})
	require.NoError(t, err)
	testDisk(t, disk)

	assert.Equal(t, "https://media.example.org/vendor/1/photo.jpg", disk.URL("vendor/1/photo.jpg"))
	assert.Equal(t, "https://media.example.org/etc/passwd", disk.URL("../../etc/passwd"))
}

func TestLocalStorageRequiresBasePath(t *testing.T) {
	_, err := NewLocalStorage(LocalConfig{})
	assert.Error(t, err)
}

func TestS3StorageURL(t *testing.T) {
	s := NewS3StorageWithClient(nil, S3Config{Bucket: "club-media", Region: "us-west-2"})
	assert.Equal(t, "https://club-media.s3.us-west-2.amazonaws.com/campaign/a.jpg", s.URL("campaign/a.jpg"))

	s = NewS3StorageWithClient(nil, S3Config{Bucket: "club-media", BaseURL: "https://cdn.example.org/"})
	assert.Equal(t, "https://cdn.example.org/campaign/a.jpg", s.URL("/campaign/a.jpg"))
}

func TestLocalStorageVisibility(t *testing.T) {
	root := t.TempDir()
	disk, err := NewLocalStorage(LocalConfig{BasePath: root})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, disk.Save(ctx, "a/public.jpg", strings.NewReader("x"), WithVisibility(VisibilityPublic)))
	require.NoError(t, disk.Save(ctx, "a/private.jpg", strings.NewReader("x")))

	info, err := os.Stat(filepath.Join(root, "a", "public.jpg"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	info, err = os.Stat(filepath.Join(root, "a", "private.jpg"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Join(root, "a"))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")
	assert.Equal(t, "/a/public.jpg", disk.URL("a/public.jpg"))
}

func TestLocalStorageCancelledSave(t *testing.T) {
	disk, err := NewLocalStorage(LocalConfig{BasePath: t.TempDir()})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, disk.Save(ctx, "a.jpg", strings.NewReader("x")), context.Canceled)
}

func TestStorageOptions(t *testing.T) {
	o := NewOptions()
	assert.Equal(t, VisibilityPrivate, o.Visibility)
	assert.Empty(t, o.Metadata)

	o = NewOptions(WithVisibility(VisibilityPublic), WithCacheMaxAge(24*time.Hour), WithMetadata("a", "1"), WithMetadata("b", "2"))
	assert.Equal(t, "public, max-age=86400", o.CacheControl)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, o.Metadata)
}

func TestDiskManagerMissingDisk(t *testing.T) {
	_, err := NewDiskManager().GetDisk("s3")
	assert.ErrorIs(t, err, ErrDiskNotFound)
}
