package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:8501", cfg.ListenAddr)
	assert.Equal(t, 200, cfg.MaxUploadMB)
	assert.Equal(t, 200, cfg.SnippetLength)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SLOWLOG_SNIPPET_LENGTH", "80")

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("listen-addr: 0.0.0.0:9000\nmax-upload-mb: 5\nsnippet-length: 10\n"), 0644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr)
	assert.Equal(t, 5, cfg.MaxUploadMB)
	assert.Equal(t, 80, cfg.SnippetLength, "environment overrides the file")
	assert.Equal(t, path, cfg.ConfigPath)
}

func TestLoadConfigMissingFileIsIgnored(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8501", cfg.ListenAddr)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{"upload limit", "SLOWLOG_MAX_UPLOAD_MB", "0"},
		{"snippet length", "SLOWLOG_SNIPPET_LENGTH", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			t.Setenv(tt.env, tt.val)
			if _, err := loadConfig(""); err == nil {
				t.Errorf("loadConfig with %s=%s succeeded, want error", tt.env, tt.val)
			}
		})
	}
}
