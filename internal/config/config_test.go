package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config search paths at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, StorageFile, cfg.Storage.Type)
	assert.NotEmpty(t, cfg.Storage.Dir)
	assert.Equal(t, filepath.Join(cfg.Storage.Dir, "glance.db"), cfg.Storage.SQLitePath)
	assert.Equal(t, "glance:", cfg.Storage.Redis.Prefix)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "primary", cfg.Calendar.ID)
	assert.Equal(t, 7, cfg.Calendar.WindowDays)
	assert.Equal(t, "127.0.0.1:0", cfg.Google.CallbackAddr)
}

func TestLoad_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("GOOGLE_CLIENT_ID", "client-123")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("GLANCE_LOG_LEVEL", "debug")
	t.Setenv("GLANCE_STORAGE_TYPE", "redis")
	t.Setenv("GLANCE_STORAGE_REDIS_ADDR", "localhost:6379")
	t.Setenv("GLANCE_CALENDAR_WINDOW_DAYS", "14")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "client-123", cfg.Google.ClientID)
	assert.Equal(t, "secret", cfg.Google.ClientSecret)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, StorageRedis, cfg.Storage.Type)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, 14, cfg.Calendar.WindowDays)
}

func TestLoad_PrefixedClientIDWins(t *testing.T) {
	isolate(t)
	t.Setenv("GOOGLE_CLIENT_ID", "plain")
	t.Setenv("GLANCE_GOOGLE_CLIENT_ID", "prefixed")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.Google.ClientID)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
google:
  client_id: from-file
storage:
  type: sqlite
  sqlite_path: /tmp/creds.db
log:
  format: json
server:
  shutdown_timeout: 3s
`), 0o600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Google.ClientID)
	assert.Equal(t, StorageSQLite, cfg.Storage.Type)
	assert.Equal(t, "/tmp/creds.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_SearchesXDGConfigHome(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "glance"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "glance", "glance.yaml"),
		[]byte("log:\n  level: warn\n"), 0o600))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("GLANCE_LOG_LEVEL", "debug")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-level", "info", "")
	fs.String("addr", ":8080", "")
	require.NoError(t, fs.Parse([]string{"--log-level=error"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Storage:  StorageConfig{Type: StorageFile, Dir: "/tmp/glance"},
			Log:      LogConfig{Level: "info", Format: "text"},
			Calendar: CalendarConfig{ID: "primary", WindowDays: 7},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "memory needs nothing", mutate: func(c *Config) { c.Storage = StorageConfig{Type: StorageMemory} }},
		{name: "unknown storage", mutate: func(c *Config) { c.Storage.Type = "etcd" }, wantErr: `unknown storage type "etcd"`},
		{name: "file without dir", mutate: func(c *Config) { c.Storage.Dir = "" }, wantErr: "storage.dir"},
		{name: "sqlite without path", mutate: func(c *Config) { c.Storage.Type = StorageSQLite }, wantErr: "storage.sqlite_path"},
		{name: "redis without addr", mutate: func(c *Config) { c.Storage.Type = StorageRedis }, wantErr: "storage.redis.addr"},
		{name: "short key", mutate: func(c *Config) {
			c.Storage.EncryptionKey = base64.StdEncoding.EncodeToString([]byte("short"))
		}, wantErr: "encryption_key"},
		{name: "good key", mutate: func(c *Config) {
			c.Storage.EncryptionKey = base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
		}},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "loud"},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: `unknown log format "xml"`},
		{name: "zero window", mutate: func(c *Config) { c.Calendar.WindowDays = 0 }, wantErr: "window_days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
