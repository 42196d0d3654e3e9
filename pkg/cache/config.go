package cache

import (
	"fmt"
	"net/url"
	"time"

	"github.com/wheniwork/frontegg-go/pkg/config"
)

// maxStatementTruncateLen is the maximum length for Redis command statements
// recorded in OpenTelemetry trace spans. Statements longer than this are
// truncated to prevent sensitive data (key values, token material) from
// leaking into telemetry systems. The value 100 is intentionally
// conservative.
const maxStatementTruncateLen = 100

// Default connection pool and timeout settings for the Redis cache backend.
const (
	// DefaultHost is the default Redis hostname.
	DefaultHost = "localhost"

	// DefaultPort is the standard Redis port.
	DefaultPort = 6379

	// DefaultDB is the default Redis database index. Redis supports
	// databases numbered 0-15 by default.
	DefaultDB = 0

	// DefaultPoolSize is the maximum number of connections in the pool.
	// The key cache is read-mostly with small values, so a modest pool
	// suffices.
	DefaultPoolSize = 10

	// DefaultMaxRetries is the maximum number of retries before giving
	// up on a command. Set to 3 to handle transient network failures.
	DefaultMaxRetries = 3

	// DefaultDialTimeout is the maximum time to wait when establishing
	// a new connection to Redis.
	DefaultDialTimeout = 10 * time.Second

	// DefaultReadTimeout is the maximum time to wait for a read response
	// from Redis.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum time to wait for a write to
	// complete on the Redis connection.
	DefaultWriteTimeout = 5 * time.Second

	// DefaultHealthTimeout is the maximum time for a health check ping
	// when the caller's context has no deadline.
	DefaultHealthTimeout = 5 * time.Second
)

// RedisConfig holds the Redis connection configuration for the cache
// backend. It supports both URI-based and structured configuration. When
// [RedisConfig.URI] is set, it takes precedence over individual fields
// (Host, Port, DB, Password).
//
// # URI-Based Configuration
//
//	cfg := cache.RedisConfig{URI: "redis://:password@localhost:6379/0"}
//	adapter, err := cache.NewRedis(ctx, cfg)
//
// # Structured Configuration
//
//	cfg := *cache.DefaultRedisConfig()
//	cfg.Host = "redis.example.com"
//	cfg.Password = config.Secret("my-password")
//	adapter, err := cache.NewRedis(ctx, cfg)
type RedisConfig struct {
	// URI is a Redis connection string (e.g.,
	// "redis://:password@host:6379/0" or "rediss://:password@host:6379/0").
	// When set, Host, Port, DB, and Password are ignored.
	// Supports both "redis://" and "rediss://" (TLS) schemes.
	// Environment variable: FRONTEGG_CACHE_URI
	URI string `json:"uri,omitempty" yaml:"uri" env:"CACHE_URI"`

	// Host is the Redis server hostname or IP address.
	// Default: "localhost"
	// Environment variable: FRONTEGG_CACHE_HOST
	Host string `json:"host,omitempty" yaml:"host" env:"CACHE_HOST"`

	// Port is the Redis server port.
	// Default: 6379
	// Environment variable: FRONTEGG_CACHE_PORT
	Port int `json:"port,omitempty" yaml:"port" env:"CACHE_PORT"`

	// DB is the Redis database index (0-15 by default).
	// Default: 0
	// Environment variable: FRONTEGG_CACHE_DB
	DB int `json:"db" yaml:"db" env:"CACHE_DB"`

	// Password is the Redis password. Uses [config.Secret] to prevent
	// accidental logging.
	// Environment variable: FRONTEGG_CACHE_PASSWORD
	Password config.Secret `json:"-" yaml:"password" env:"CACHE_PASSWORD"`

	// PoolSize is the maximum number of connections in the pool.
	// Default: 10
	// Environment variable: FRONTEGG_CACHE_POOL_SIZE
	PoolSize int `json:"pool_size,omitempty" yaml:"pool_size" env:"CACHE_POOL_SIZE"`

	// MaxRetries is the maximum number of retries before giving up on
	// a command. Set to -1 to disable retries.
	// Default: 3
	// Environment variable: FRONTEGG_CACHE_MAX_RETRIES
	MaxRetries int `json:"max_retries,omitempty" yaml:"max_retries" env:"CACHE_MAX_RETRIES"`

	// DialTimeout is the maximum time to wait when establishing a new
	// connection to Redis.
	// Default: 10s
	// Environment variable: FRONTEGG_CACHE_DIAL_TIMEOUT
	DialTimeout time.Duration `json:"dial_timeout,omitempty" yaml:"dial_timeout" env:"CACHE_DIAL_TIMEOUT"`

	// ReadTimeout is the maximum time to wait for a read response from
	// Redis.
	// Default: 5s
	// Environment variable: FRONTEGG_CACHE_READ_TIMEOUT
	ReadTimeout time.Duration `json:"read_timeout,omitempty" yaml:"read_timeout" env:"CACHE_READ_TIMEOUT"`

	// WriteTimeout is the maximum time to wait for a write to complete
	// on the Redis connection.
	// Default: 5s
	// Environment variable: FRONTEGG_CACHE_WRITE_TIMEOUT
	WriteTimeout time.Duration `json:"write_timeout,omitempty" yaml:"write_timeout" env:"CACHE_WRITE_TIMEOUT"`

	// TLSEnabled indicates whether to use TLS for the Redis connection.
	// When URI is set with "rediss://" scheme, TLS is enabled automatically.
	// Default: false
	// Environment variable: FRONTEGG_CACHE_TLS_ENABLED
	TLSEnabled bool `json:"tls_enabled,omitempty" yaml:"tls_enabled" env:"CACHE_TLS_ENABLED"`
}

// DefaultRedisConfig returns a RedisConfig with default values. Callers
// should override fields as needed before passing the config to [NewRedis].
//
// Default values:
//   - Host: localhost
//   - Port: 6379
//   - DB: 0
//   - PoolSize: 10
//   - MaxRetries: 3
//   - DialTimeout: 10s, ReadTimeout: 5s, WriteTimeout: 5s
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Host:         DefaultHost,
		Port:         DefaultPort,
		DB:           DefaultDB,
		PoolSize:     DefaultPoolSize,
		MaxRetries:   DefaultMaxRetries,
		DialTimeout:  DefaultDialTimeout,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
	}
}

// Validate checks the configuration for invalid values and applies defaults
// for zero-valued fields. Returns the first validation error encountered,
// or nil if the configuration is valid.
//
// When [RedisConfig.URI] is set, structured fields (Host, Port, DB) are not
// validated because the URI takes precedence. Pool and timeout defaults
// are always applied when zero.
//
// Validation rules:
//   - URI (if set) must have redis:// or rediss:// scheme
//   - Port must be between 1 and 65535
//   - PoolSize must be >= 1
//   - Duration fields must not be negative
func (c *RedisConfig) Validate() error {
	// Apply pool and timeout defaults regardless of URI vs structured.
	c.applyDefaults()

	if c.URI != "" {
		// URI-based config: validate that the URI is parseable and uses
		// a recognized Redis scheme.
		u, err := url.Parse(c.URI)
		if err != nil {
			return fmt.Errorf("cache: config URI is invalid: %w", err)
		}
		if u.Scheme != "redis" && u.Scheme != "rediss" {
			return fmt.Errorf("cache: config URI scheme must be redis:// or rediss://, got %q", u.Scheme)
		}
		return nil
	}

	// Structured config validation.
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("cache: config port must be between 1 and 65535, got %d", c.Port)
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("cache: config pool_size must be >= 1, got %d", c.PoolSize)
	}
	if c.DialTimeout < 0 {
		return fmt.Errorf("cache: config dial_timeout must not be negative, got %v", c.DialTimeout)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("cache: config read_timeout must not be negative, got %v", c.ReadTimeout)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("cache: config write_timeout must not be negative, got %v", c.WriteTimeout)
	}

	return nil
}

// applyDefaults sets default values for zero-valued pool and timeout fields.
func (c *RedisConfig) applyDefaults() {
	if c.PoolSize == 0 {
		c.PoolSize = DefaultPoolSize
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
}

// truncateStatement truncates a Redis command statement to
// [maxStatementTruncateLen] runes for safe inclusion in OpenTelemetry
// trace spans. Truncated statements are suffixed with "..." to indicate
// truncation. The truncation is rune-aware to avoid splitting multi-byte
// UTF-8 characters.
func truncateStatement(s string) string {
	runes := []rune(s)
	if len(runes) <= maxStatementTruncateLen {
		return s
	}
	return string(runes[:maxStatementTruncateLen]) + "..."
}
