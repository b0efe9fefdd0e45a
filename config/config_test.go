package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ITEMMEDIA_BACKEND", "")
	t.Setenv("MEDIA_DISK", "")
	t.Setenv("SYNC_CONCURRENCY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, BackendHTTP, cfg.Backend)
	assert.Equal(t, DiskLocal, cfg.MediaDisk)
	assert.Equal(t, 1, cfg.SyncConcurrency)
	assert.Equal(t, 1920, cfg.MaxImageWidth)
}

func TestLoadFromDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ITEMMEDIA_TEST_PLATFORM=https://api.example.org\n"), 0o600))
	t.Setenv("PLATFORM_URL", "")
	t.Setenv("SYNC_CONCURRENCY", "4")

	_, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.org", os.Getenv("ITEMMEDIA_TEST_PLATFORM"))
	os.Unsetenv("ITEMMEDIA_TEST_PLATFORM")
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"ITEMMEDIA_BACKEND": "mongo"}},
		{"unknown disk", map[string]string{"MEDIA_DISK": "ftp"}},
		{"s3 without bucket", map[string]string{"MEDIA_DISK": "s3", "S3_BUCKET": ""}},
		{"zero concurrency", map[string]string{"SYNC_CONCURRENCY": "0"}},
		{"non numeric concurrency", map[string]string{"SYNC_CONCURRENCY": "many"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}
