package cache

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	fgerr "github.com/wheniwork/frontegg-go/pkg/errors"
)

// tracerName is the OpenTelemetry instrumentation scope name for this package.
// It follows the Go module path convention for OTel instrumentation libraries.
const tracerName = "github.com/wheniwork/frontegg-go/pkg/cache"

// Cmdable defines the Redis command operations the cache adapter uses. It is
// satisfied by [*redis.Client] and by mock implementations for unit testing,
// enabling dependency injection via [NewRedisFromClient] without a real
// Redis instance.
//
// The interface is intentionally narrow: the key cache only needs string
// get/set with expiry, delete, and connectivity checks.
type Cmdable interface {
	// Set sets the string value of a key with an optional expiration.
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd

	// Get returns the string value of a key.
	Get(ctx context.Context, key string) *redis.StringCmd

	// Del deletes one or more keys.
	Del(ctx context.Context, keys ...string) *redis.IntCmd

	// Ping pings the Redis server.
	Ping(ctx context.Context) *redis.StatusCmd

	// Close closes the client connection.
	Close() error
}

// Compile-time interface compliance check. This ensures that *redis.Client
// satisfies the Cmdable interface at compile time rather than at runtime.
var _ Cmdable = (*redis.Client)(nil)

// Redis is an [Adapter] backed by Redis, with OpenTelemetry tracing and
// structured error handling. It wraps a [Cmdable] (typically
// [*redis.Client]) and adds cross-cutting concerns transparently.
//
// A Redis adapter is safe for concurrent use by multiple goroutines. Create
// one per Redis instance and share it across the application.
//
// Create with [NewRedis] for production use, or [NewRedisFromClient] for
// testing with mock implementations.
type Redis struct {
	cmdable Cmdable
	config  *RedisConfig
	tracer  trace.Tracer
	dbIndex int
}

// Compile-time interface compliance check.
var _ Adapter = (*Redis)(nil)

// NewRedis creates a Redis-backed cache adapter with connection pooling. It
// validates the configuration, creates a go-redis client, and verifies
// connectivity with a ping.
//
// The caller must call [Redis.Close] when the adapter is no longer needed
// to release connection resources.
//
// Error codes returned:
//   - [fgerr.CodeValidation]: invalid configuration
//   - [fgerr.CodeUnavailable]: cannot connect to Redis
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fgerr.Wrap(err, fgerr.CodeValidation,
			"cache: invalid redis configuration")
	}

	var opts *redis.Options
	if cfg.URI != "" {
		var err error
		opts, err = redis.ParseURL(cfg.URI)
		if err != nil {
			return nil, fgerr.Wrap(err, fgerr.CodeValidation,
				"cache: failed to parse redis connection URI")
		}
		opts.PoolSize = cfg.PoolSize
		opts.MaxRetries = cfg.MaxRetries
		if cfg.DialTimeout > 0 {
			opts.DialTimeout = cfg.DialTimeout
		}
		if cfg.ReadTimeout > 0 {
			opts.ReadTimeout = cfg.ReadTimeout
		}
		if cfg.WriteTimeout > 0 {
			opts.WriteTimeout = cfg.WriteTimeout
		}
	} else {
		opts = &redis.Options{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Password:     cfg.Password.Value(),
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			MaxRetries:   cfg.MaxRetries,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}
		if cfg.TLSEnabled {
			opts.TLSConfig = &tls.Config{
				MinVersion: tls.VersionTLS12,
			}
		}
	}

	rdb := redis.NewClient(opts)

	// Verify connectivity before returning the adapter.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fgerr.Wrap(err, fgerr.CodeUnavailable,
			"cache: failed to connect to redis")
	}

	dbIndex := cfg.DB
	if cfg.URI != "" {
		dbIndex = opts.DB
	}

	return &Redis{
		cmdable: rdb,
		config:  &cfg,
		tracer:  otel.Tracer(tracerName),
		dbIndex: dbIndex,
	}, nil
}

// NewRedisFromClient creates a Redis adapter with a pre-existing [Cmdable].
// This constructor is intended for testing with mock implementations and
// for advanced use cases where a custom client is needed.
//
// The cfg parameter is stored but not validated; pass nil for a zero-value
// config in tests.
func NewRedisFromClient(cmdable Cmdable, cfg *RedisConfig) *Redis {
	if cfg == nil {
		cfg = &RedisConfig{}
	}
	return &Redis{
		cmdable: cmdable,
		config:  cfg,
		tracer:  otel.Tracer(tracerName),
		dbIndex: cfg.DB,
	}
}

// Get returns the value stored under key, with OpenTelemetry tracing.
// A missing key is a miss, not an error.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, span := r.startSpan(ctx, "Get", fmt.Sprintf("GET %s", key))
	val, err := r.cmdable.Get(ctx, key).Result()
	finishSpan(span, err)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, wrapError(err, "cache: get failed")
	}
	return val, true, nil
}

// Set stores value under key with the given ttl, with OpenTelemetry
// tracing. A zero or negative ttl stores the value without expiry.
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	ctx, span := r.startSpan(ctx, "Set", fmt.Sprintf("SET %s", key))
	if ttl < 0 {
		ttl = 0
	}
	err := r.cmdable.Set(ctx, key, value, ttl).Err()
	finishSpan(span, err)
	if err != nil {
		return wrapError(err, "cache: set failed")
	}
	return nil
}

// Delete removes the key, with OpenTelemetry tracing. Deleting an absent
// key is not an error.
func (r *Redis) Delete(ctx context.Context, key string) error {
	ctx, span := r.startSpan(ctx, "Delete", fmt.Sprintf("DEL %s", key))
	err := r.cmdable.Del(ctx, key).Err()
	finishSpan(span, err)
	if err != nil {
		return wrapError(err, "cache: delete failed")
	}
	return nil
}

// Health verifies that the Redis connection is alive by executing a ping.
// It applies [DefaultHealthTimeout] if the provided context has no deadline.
//
// Returns nil if Redis is reachable, or a [*fgerr.Error] with code
// [fgerr.CodeUnavailable] if the ping fails. This method is designed for
// use with health check endpoints and readiness probes.
func (r *Redis) Health(ctx context.Context) error {
	ctx, span := r.startSpan(ctx, "Health", "PING")

	// Apply a default timeout if the caller's context has no deadline.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultHealthTimeout)
		defer cancel()
	}

	err := r.cmdable.Ping(ctx).Err()
	finishSpan(span, err)
	if err != nil {
		return fgerr.Wrap(err, fgerr.CodeUnavailable,
			"cache: health check failed")
	}
	return nil
}

// Close releases all connection resources. After Close is called, the
// adapter must not be used. Close is safe to call multiple times.
func (r *Redis) Close() error {
	return r.cmdable.Close()
}

// startSpan creates a new OpenTelemetry span with standard database semantic
// attributes. It follows the OpenTelemetry semantic conventions for database
// client spans: https://opentelemetry.io/docs/specs/semconv/database/
func (r *Redis) startSpan(ctx context.Context, operationName, statement string) (context.Context, trace.Span) {
	ctx, span := r.tracer.Start(ctx, "cache."+operationName,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	span.SetAttributes(
		attribute.String("db.system", "redis"),
		attribute.Int("db.redis.database_index", r.dbIndex),
		attribute.String("db.statement", truncateStatement(statement)),
	)
	return ctx, span
}

// finishSpan records an error on the span (if any) and ends it. If err is
// nil, the span status is set to OK. Cache misses surface as redis.Nil and
// are recorded as OK since absence is an expected outcome.
func finishSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, redis.Nil) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// wrapError converts a Redis error to a structured [*fgerr.Error] with an
// appropriate error code. It distinguishes timeouts from general failures
// so callers can make retry decisions via [fgerr.IsTimeout] and
// [fgerr.IsRetryable].
//
// [context.DeadlineExceeded] is classified as [fgerr.CodeTimeout]
// (retryable). [context.Canceled] is classified as [fgerr.CodeInternalCache]
// (not retryable) because cancellation indicates the caller abandoned the
// operation.
func wrapError(err error, message string) *fgerr.Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fgerr.Wrap(err, fgerr.CodeTimeout, message)
	}
	return fgerr.Wrap(err, fgerr.CodeInternalCache, message)
}
