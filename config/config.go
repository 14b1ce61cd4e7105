package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override. Nested keys use a double
// underscore: FOODGRAM_SECURITY__JWT_SECRET -> security.jwt_secret.
const EnvPrefix = "FOODGRAM_"

// PathEnvVar overrides the path given to Get.
const PathEnvVar = "CONFIG_PATH"

const ENV_DEVELOPMENT = "development"
const ENV_PRODUCTION = "production"

type Configuration struct {
	ApiPort     string `koanf:"api_port"`
	Environment string `koanf:"environment"`

	LogPath   string `koanf:"log_path"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"` // json | console

	Database    string `koanf:"database"` // "sqlite3" or "postgres"
	DbPath      string `koanf:"db_path"`
	DbHost      string `koanf:"db_host"`
	DbPort      string `koanf:"db_port"`
	DbUser      string `koanf:"db_user"`
	DbName      string `koanf:"db_name"`
	DbPass      string `koanf:"db_pass"`
	DbSSLMode   string `koanf:"db_sslmode"`
	AutoMigrate bool   `koanf:"automigrate"`

	CorsOrigins []string `koanf:"cors_origins"`

	Security struct {
		JwtSecret      string        `koanf:"jwt_secret"`
		TokenTTL       time.Duration `koanf:"token_ttl"`
		PasswordMinLen int           `koanf:"password_min_len"`
		AuthRateLimit  float64       `koanf:"auth_rate_limit"` // requests per second per client
		AuthRateBurst  int           `koanf:"auth_rate_burst"`
		AdminEmail     string        `koanf:"admin_email"` // bootstrap admin, created at startup when set
		AdminPassword  string        `koanf:"admin_password"`
	} `koanf:"security"`

	Storage struct {
		Driver    string `koanf:"driver"` // local | gcs
		MediaRoot string `koanf:"media_root"`
		MediaURL  string `koanf:"media_url"`
		Bucket    string `koanf:"bucket"`
	} `koanf:"storage"`

	Pagination struct {
		DefaultLimit int `koanf:"default_limit"`
		MaxLimit     int `koanf:"max_limit"`
	} `koanf:"pagination"`
}

// Default returns the configuration used when nothing else is set.
func Default() Configuration {
	var c Configuration
	c.ApiPort = "8080"
	c.Environment = ENV_DEVELOPMENT
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.Database = "sqlite3"
	c.DbPath = "db/database.db"
	c.DbPort = "5432"
	c.DbSSLMode = "disable"
	c.AutoMigrate = true
	c.CorsOrigins = []string{"*"}
	c.Security.JwtSecret = "CHANGE_ME"
	c.Security.TokenTTL = 24 * time.Hour
	c.Security.PasswordMinLen = 8
	c.Security.AuthRateLimit = 1
	c.Security.AuthRateBurst = 10
	c.Storage.Driver = "local"
	c.Storage.MediaRoot = "media"
	c.Storage.MediaURL = "/media/"
	c.Pagination.DefaultLimit = 6
	c.Pagination.MaxLimit = 100
	return c
}

// Get loads defaults, then the YAML (or JSON) file at path if it exists,
// then FOODGRAM_* environment variables.
func Get(path string) (Configuration, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Configuration{}, fmt.Errorf("config: loading defaults: %w", err)
	}

	if p := os.Getenv(PathEnvVar); p != "" {
		path = p
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Configuration{}, fmt.Errorf("config: loading %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Configuration{}, fmt.Errorf("config: loading environment: %w", err)
	}

	if err := splitListKeys(k); err != nil {
		return Configuration{}, err
	}

	var c Configuration
	if err := k.Unmarshal("", &c); err != nil {
		return Configuration{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Configuration{}, err
	}
	return c, nil
}

// listKeys may arrive from the environment as comma separated strings.
var listKeys = []string{"cors_origins"}

func splitListKeys(k *koanf.Koanf) error {
	for _, key := range listKeys {
		raw, ok := k.Get(key).(string)
		if !ok || raw == "" {
			continue
		}
		var items []string
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		if err := k.Set(key, items); err != nil {
			return fmt.Errorf("config: setting %s: %w", key, err)
		}
	}
	return nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate rejects configurations the server cannot start with.
func (c Configuration) Validate() error {
	var errs []error

	switch c.Database {
	case "sqlite3", "sqlite", "postgres", "postgresql":
	default:
		errs = append(errs, fmt.Errorf("database: unsupported driver %q", c.Database))
	}

	switch c.Storage.Driver {
	case "local":
		if c.Storage.MediaRoot == "" {
			errs = append(errs, errors.New("storage.media_root is required for local storage"))
		}
	case "gcs":
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("storage.bucket is required for gcs storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unsupported driver %q", c.Storage.Driver))
	}

	if c.Security.TokenTTL <= 0 {
		errs = append(errs, errors.New("security.token_ttl must be positive"))
	}
	if c.Environment == ENV_PRODUCTION && (c.Security.JwtSecret == "" || c.Security.JwtSecret == "CHANGE_ME") {
		errs = append(errs, errors.New("security.jwt_secret must be set in production"))
	}
	if c.Security.AdminEmail != "" && len(c.Security.AdminPassword) < c.Security.PasswordMinLen {
		errs = append(errs, fmt.Errorf("security.admin_password must have at least %d characters", c.Security.PasswordMinLen))
	}
	if c.Pagination.DefaultLimit <= 0 || c.Pagination.MaxLimit < c.Pagination.DefaultLimit {
		errs = append(errs, errors.New("pagination: need 0 < default_limit <= max_limit"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// IsSQLite reports whether the configured driver is sqlite.
func (c Configuration) IsSQLite() bool {
	return c.Database == "sqlite3" || c.Database == "sqlite"
}
