package config

import (
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	DatabaseDriverSQLite   = "sqlite"
	DatabaseDriverPostgres = "postgres"
)

const (
	configFileENV     = "CONFIG_FILE"
	defaultConfigFile = "/config/config.yaml"
)

type Config struct {
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseDriver            string        `koanf:"database_driver" default:"sqlite"`
	DatabaseFilePath          string        `koanf:"database_file_path"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries" default:"5"`
	DatabaseURL               string        `koanf:"database_url"`
	Environment               string        `koanf:"environment" default:"development"`
	Hostname                  string        `koanf:"-"`
	// PhoneDefaultRegion is the ISO 3166-1 region used for reader phone
	// numbers written without a leading "+". Empty requires international
	// format.
	PhoneDefaultRegion string `koanf:"phone_default_region"`
	ServerHost         string `koanf:"server_host" default:"0.0.0.0"`
	ServerPort         int    `koanf:"server_port" default:"3689"`
}

// New builds the config from defaults, then the YAML file named by
// CONFIG_FILE, then environment variables. Later sources win.
func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}
	cfg.Hostname = hostname

	k := koanf.New(".")

	configFile := os.Getenv(configFileENV)
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", configFile)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.WithStack(err)
	}

	// Empty variables are skipped so they don't clobber file values.
	err = k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(key), value
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config pointing at an in-memory SQLite database.
func NewForTest() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	cfg.DatabaseFilePath = ":memory:"
	cfg.Environment = "test"
	cfg.ServerHost = "127.0.0.1"
	return cfg
}

func (cfg *Config) validate() error {
	switch cfg.DatabaseDriver {
	case DatabaseDriverSQLite:
		if cfg.DatabaseFilePath == "" {
			return missingRequired("DatabaseFilePath")
		}
	case DatabaseDriverPostgres:
		if cfg.DatabaseURL == "" {
			return missingRequired("DatabaseURL")
		}
	default:
		return errors.Errorf("unsupported database_driver %q: must be %q or %q", cfg.DatabaseDriver, DatabaseDriverSQLite, DatabaseDriverPostgres)
	}
	if cfg.ServerPort < 0 || cfg.ServerPort > 65535 {
		return errors.Errorf("invalid server_port %d", cfg.ServerPort)
	}
	return nil
}

func missingRequired(field string) error {
	key := toSnakeCase(field)
	return errors.Errorf("missing required config: set the %s environment variable or %s in the config file", strings.ToUpper(key), key)
}

func toSnakeCase(field string) string {
	return strcase.ToSnake(field)
}
