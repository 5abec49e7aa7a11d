package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wikitok/backend/datastore"
	"github.com/wikitok/backend/session"
)

const (
	DriverSQLite   = datastore.DriverSQLite
	DriverPostgres = datastore.DriverPostgres

	AuthModeDemo  = session.ModeDemo
	AuthModeToken = session.ModeToken
)

const (
	defaultPort            = "5000"
	defaultDriver          = DriverSQLite
	defaultSQLiteDSN       = "wikitok.db"
	defaultPostgresDSN     = "user=postgres password=password dbname=wikitok host=localhost port=5432 sslmode=disable"
	defaultRequestTimeout  = 60 * time.Second
	defaultShutdownTimeout = 15 * time.Second
	defaultDemoEmail       = "demo@wikitok.com"
	defaultDemoUsername    = "demo_user"
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	CORS     CORSConfig     `yaml:"cors"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type AuthConfig struct {
	Mode         string `yaml:"mode"`
	DemoEmail    string `yaml:"demo_email"`
	DemoUsername string `yaml:"demo_username"`
	DemoToken    string `yaml:"demo_token"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML file at path (if any), applies environment overrides
// and fills in defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Port, "PORT")
	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.DSN, "DB_CONNECTION_STRING")
	setString(&c.Auth.Mode, "AUTH_MODE")
	setString(&c.Auth.DemoToken, "DEMO_API_TOKEN")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing REQUEST_TIMEOUT: %w", err)
		}
		c.Server.RequestTimeout = d
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORS.AllowedOrigins = origins
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = defaultPort
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = defaultRequestTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Database.Driver == "" {
		c.Database.Driver = defaultDriver
	}
	c.Database.Driver = strings.ToLower(c.Database.Driver)
	if c.Database.DSN == "" {
		if c.Database.Driver == DriverPostgres {
			c.Database.DSN = defaultPostgresDSN
		} else {
			c.Database.DSN = defaultSQLiteDSN
		}
	}
	if c.Auth.Mode == "" {
		c.Auth.Mode = AuthModeDemo
	}
	c.Auth.Mode = strings.ToLower(c.Auth.Mode)
	if c.Auth.DemoEmail == "" {
		c.Auth.DemoEmail = defaultDemoEmail
	}
	if c.Auth.DemoUsername == "" {
		c.Auth.DemoUsername = defaultDemoUsername
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Auth.Mode {
	case AuthModeDemo, AuthModeToken:
	default:
		return fmt.Errorf("unsupported auth mode %q", c.Auth.Mode)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
