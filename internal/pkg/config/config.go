package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const envDevelopment = "development"

// DevSessionSecret signs portal session cookies when no secret is set in
// development.
const DevSessionSecret = "portal-dev-secret"

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	Backend BackendConfig
	Mongo   MongoConfig
	Redis   RedisConfig

	// StateDir is where portalctl keeps its state file. Empty means the
	// user config directory.
	StateDir string `env:"PORTAL_STATE_DIR"`
}

type SessionConfig struct {
	Secret string        `env:"SESSION_SECRET"`
	TTL    time.Duration `env:"SESSION_TTL, default=168h"`
}

type BackendConfig struct {
	URL     string        `env:"BACKEND_URL,     default=http://localhost:8001"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=15s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=school_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsDevelopment reports whether the portal runs in the development
// environment.
func (c *Config) IsDevelopment() bool { return c.Env == envDevelopment }

// Load reads an optional .env file and then the environment. It panics on
// invalid configuration.
func Load() *Config {
	if err := loadDotEnv(".env"); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom resolves the configuration from the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Session.Secret == "" {
		if !c.IsDevelopment() {
			return errors.New("SESSION_SECRET is required outside development")
		}
		c.Session.Secret = DevSessionSecret
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.Session.TTL)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive, got %s", c.Backend.Timeout)
	}
	return nil
}

// loadDotEnv exports the variables of path without overriding the
// environment. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
