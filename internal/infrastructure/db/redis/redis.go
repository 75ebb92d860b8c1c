package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	clientName     = "s2cr"
	defaultTimeout = 5 * time.Second
)

// Config points at the Redis instance holding sessions. Addr is host:port or
// a redis:// URL; explicit Password and DB override what the URL carries.
type Config struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
}

func clientOptions(cfg Config) (*redis.Options, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := &redis.Options{Addr: cfg.Addr}
	if strings.Contains(cfg.Addr, "://") {
		parsed, err := redis.ParseURL(cfg.Addr)
		if err != nil {
			return nil, fmt.Errorf("redis url: %w", err)
		}
		opts = parsed
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	opts.ClientName = clientName
	opts.DialTimeout = timeout
	opts.ReadTimeout = timeout
	opts.WriteTimeout = timeout
	return opts, nil
}

// Connect builds a client and pings it once. The client is closed if the ping
// fails.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := Ping(pingCtx, client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return client, nil
}

// Ping backs the readiness probe.
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
