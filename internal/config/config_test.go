package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJSON = `{
	"server_address": ":3000",
	"data_dir": "json_data",
	"database_dsn": "json-dsn",
	"trusted_subnet": "10.0.0.0/8",
	"bookmark_flush_interval": "1m"
}`

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.RunAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, 10*time.Second, cfg.DBConnectionTimeout)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadSize)

	key, insecure := cfg.SessionKey()
	assert.True(t, insecure)
	assert.NotEmpty(t, key)
}

func TestApplyDefaults(t *testing.T) {
	values := Config{RunAddr: ":9999"}

	applyDefaults(&values, defaultConfig)

	assert.Equal(t, ":9999", values.RunAddr)
	assert.Equal(t, defaultConfig.SessionCookieName, values.SessionCookieName)
}

func TestConfigPriorityJSONOnly(t *testing.T) {
	t.Setenv("CONFIG", writeTempJSON(t, testJSON))

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.RunAddr)
	assert.Equal(t, "json_data", cfg.DataDir)
	assert.Equal(t, "json-dsn", cfg.DatabaseDSN)
	assert.Equal(t, "10.0.0.0/8", cfg.TrustedSubnet)
	assert.Equal(t, time.Minute, cfg.BookmarkFlushInterval)
}

func TestConfigPriorityJSONPlusEnv(t *testing.T) {
	t.Setenv("CONFIG", writeTempJSON(t, testJSON))
	t.Setenv("SERVER_ADDRESS", ":4000")
	t.Setenv("BOOKMARK_FLUSH_INTERVAL", "2s")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.RunAddr)
	assert.Equal(t, 2*time.Second, cfg.BookmarkFlushInterval)
	assert.Equal(t, "json-dsn", cfg.DatabaseDSN)
}

func TestConfigPriorityAllSources(t *testing.T) {
	jsonPath := writeTempJSON(t, testJSON)
	t.Setenv("SERVER_ADDRESS", ":4000")
	t.Setenv("SESSION_SECRET_KEY", "from-env")

	cfg, err := New(WithArgs([]string{"-c", jsonPath, "-a", ":6000", "-k", "from-flag"}))
	require.NoError(t, err)

	assert.Equal(t, ":6000", cfg.RunAddr)
	assert.Equal(t, "json-dsn", cfg.DatabaseDSN)
	key, insecure := cfg.SessionKey()
	assert.False(t, insecure)
	assert.Equal(t, []byte("from-flag"), key)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
		{"bad address", map[string]string{"SERVER_ADDRESS": "nowhere"}},
		{"bad subnet", map[string]string{"TRUSTED_SUBNET": "10.0.0.0"}},
		{"bad duration", map[string]string{"GENERATION_TIMEOUT": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := New(WithDisableFlagsParsing(true))
			assert.Error(t, err)
		})
	}
}

func TestDataDirMustBeDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	t.Setenv("DATA_DIR", file)

	_, err := New(WithDisableFlagsParsing(true))
	assert.Error(t, err)
}
