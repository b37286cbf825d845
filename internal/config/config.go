package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/teemow/glance/internal/calendar"
	"github.com/teemow/glance/internal/credential"
	"github.com/teemow/glance/internal/logging"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "GLANCE"

// Storage backends for the credential.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// Config is the complete application configuration.
type Config struct {
	Google   GoogleConfig   `mapstructure:"google"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	Calendar CalendarConfig `mapstructure:"calendar"`
}

// GoogleConfig holds the OAuth client registration.
type GoogleConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`

	// CallbackAddr is the loopback address the consent redirect lands on.
	CallbackAddr string `mapstructure:"callback_addr"`
}

// StorageConfig selects where the credential is persisted.
type StorageConfig struct {
	Type string `mapstructure:"type"`

	// Dir holds the credential file for the file backend.
	Dir        string `mapstructure:"dir"`
	SQLitePath string `mapstructure:"sqlite_path"`

	// EncryptionKey is a base64 AES-256 key. When set, the stored
	// credential is encrypted with it.
	EncryptionKey string `mapstructure:"encryption_key"`

	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig configures glance serve.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	MetricsAddr     string        `mapstructure:"metrics_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CalendarConfig selects the calendar and how far ahead to look.
type CalendarConfig struct {
	ID         string `mapstructure:"id"`
	WindowDays int    `mapstructure:"window_days"`
}

// flagKeys maps command line flag names to config keys.
var flagKeys = map[string]string{
	"log-level":     "log.level",
	"log-format":    "log.format",
	"storage":       "storage.type",
	"storage-dir":   "storage.dir",
	"addr":          "server.addr",
	"metrics-addr":  "server.metrics_addr",
	"calendar":      "calendar.id",
	"calendar-days": "calendar.window_days",
}

// Load reads the configuration. configFile, if not empty, is used instead of
// searching for glance.yaml and must exist. Flags from fs that appear in the
// flag table override every other source when they were set.
func Load(configFile string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	envMappings := map[string][]string{
		"google.client_id":     {"GLANCE_GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_ID"},
		"google.client_secret": {"GLANCE_GOOGLE_CLIENT_SECRET", "GOOGLE_CLIENT_SECRET"},
	}
	for key, envs := range envMappings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("glance")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "glance"))
		}
		v.AddConfigPath("$HOME/.glance")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = filepath.Join(cfg.Storage.Dir, "glance.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("google.client_id", "")
	v.SetDefault("google.client_secret", "")
	v.SetDefault("google.callback_addr", "127.0.0.1:0")

	v.SetDefault("storage.type", StorageFile)
	v.SetDefault("storage.dir", defaultStorageDir())
	v.SetDefault("storage.sqlite_path", "")
	v.SetDefault("storage.encryption_key", "")
	v.SetDefault("storage.redis.addr", "")
	v.SetDefault("storage.redis.username", "")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.prefix", "glance:")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics_addr", "")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("calendar.id", calendar.PrimaryCalendar)
	v.SetDefault("calendar.window_days", calendar.DefaultWindowDays)
}

func defaultStorageDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "glance")
	}
	return ".glance"
}

// Validate checks the values that cannot be repaired with a default.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Type {
	case StorageMemory:
	case StorageFile:
		if c.Storage.Dir == "" {
			errs = append(errs, errors.New("storage.dir is required for the file backend"))
		}
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("storage.sqlite_path is required for the sqlite backend"))
		}
	case StorageRedis:
		if c.Storage.Redis.Addr == "" {
			errs = append(errs, errors.New("storage.redis.addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage type %q", c.Storage.Type))
	}

	if c.Storage.EncryptionKey != "" {
		if _, err := credential.KeyFromBase64(c.Storage.EncryptionKey); err != nil {
			errs = append(errs, fmt.Errorf("invalid storage.encryption_key: %w", err))
		}
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	if c.Calendar.WindowDays <= 0 {
		errs = append(errs, fmt.Errorf("calendar.window_days must be positive, got %d", c.Calendar.WindowDays))
	}

	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
