package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RedisKV backs session state with Redis so multiple service instances can
// share sessions. Each session maps to one hash key with a TTL equal to the
// session lifetime; every write refreshes the TTL.
type RedisKV struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisKV initializes a new Redis-backed session state client
func NewRedisKV(addr, password string, db int, ttl time.Duration) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test the connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisKV{client: client, ttl: ttl}, nil
}

// Close closes the Redis connection
func (r *RedisKV) Close() error {
	return r.client.Close()
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// Get retrieves one logical key from the session hash with tracing
func (r *RedisKV) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	ctx, span := tracer.Start(ctx, "redis.session_get",
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
			attribute.String("key", key),
		),
	)
	defer span.End()

	value, err := r.client.HGet(ctx, sessionKey(sessionID), key).Result()
	if err == redis.Nil {
		span.SetAttributes(attribute.Bool("found", false))
		return "", false, nil // absent key, not an error
	} else if err != nil {
		span.RecordError(err)
		return "", false, fmt.Errorf("failed to get session key: %w", err)
	}

	span.SetAttributes(attribute.Bool("found", true))
	return value, true, nil
}

// Set stores one logical key in the session hash and refreshes the session TTL
func (r *RedisKV) Set(ctx context.Context, sessionID, key, value string) error {
	ctx, span := tracer.Start(ctx, "redis.session_set",
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
			attribute.String("key", key),
			attribute.Int("value_bytes", len(value)),
		),
	)
	defer span.End()

	hkey := sessionKey(sessionID)
	if err := r.client.HSet(ctx, hkey, key, value).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to set session key: %w", err)
	}
	if err := r.client.Expire(ctx, hkey, r.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to refresh session ttl: %w", err)
	}

	span.SetAttributes(attribute.Int64("ttl_seconds", int64(r.ttl.Seconds())))
	return nil
}

// Delete removes one logical key from the session hash
func (r *RedisKV) Delete(ctx context.Context, sessionID, key string) error {
	ctx, span := tracer.Start(ctx, "redis.session_delete",
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
			attribute.String("key", key),
		),
	)
	defer span.End()

	if err := r.client.HDel(ctx, sessionKey(sessionID), key).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete session key: %w", err)
	}
	return nil
}

// DropSession removes the whole session hash
func (r *RedisKV) DropSession(ctx context.Context, sessionID string) error {
	ctx, span := tracer.Start(ctx, "redis.session_drop",
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
		),
	)
	defer span.End()

	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to drop session: %w", err)
	}
	return nil
}
