package config

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	Storage  string `env:"STORAGE,   default=mongo"`

	BcryptCost int `env:"BCRYPT_COST, default=10"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Session SessionConfig
	Login   LoginConfig
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=s2cr"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

// RedisConfig.Addr takes either host:port or a redis:// URL.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,  default=5s"`
}

type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET"`
	TTL          time.Duration `env:"SESSION_TTL,           default=336h"`
	CookieName   string        `env:"SESSION_COOKIE_NAME,   default=s2cr_session"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=false"`
}

// LoginConfig tunes login throttling. AttemptsPerMinute <= 0 disables it.
type LoginConfig struct {
	AttemptsPerMinute float64 `env:"LOGIN_ATTEMPTS_PER_MINUTE, default=0"`
	Burst             int     `env:"LOGIN_BURST,               default=5"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// EnsureSessionSecret fills an empty session secret with random bytes outside
// production and reports whether it did so. Sessions signed with a generated
// secret do not survive a restart.
func (c *Config) EnsureSessionSecret() (bool, error) {
	if c.Session.Secret != "" {
		return false, nil
	}
	if c.IsProduction() {
		return false, errors.New("SESSION_SECRET is required in production")
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return false, fmt.Errorf("generate session secret: %w", err)
	}
	c.Session.Secret = hex.EncodeToString(b)
	return true, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StorageMongo, StorageMemory:
	default:
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StorageMongo, StorageMemory, c.Storage)
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.Session.CookieName == "" {
		return errors.New("SESSION_COOKIE_NAME must not be empty")
	}
	return nil
}
