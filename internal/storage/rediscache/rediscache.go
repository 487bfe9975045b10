// Package rediscache layers a read-through Redis cache over a config store.
// Writes invalidate the cache before reporting success, so a read that
// follows a completed write never serves the pre-write schema.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-checkoutfields/pkg/model"
	"github.com/goliatone/go-checkoutfields/pkg/registry"
)

const fieldsKey = "checkout_fields:schema"

// Cache is the slice of the redis client the store uses. *redis.Client
// satisfies it; tests supply an in-memory fake.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ConfigStore caches field reads from the wrapped store in Redis.
type ConfigStore struct {
	inner  registry.ConfigStore
	client Cache
	ttl    time.Duration
	logger *slog.Logger
}

// New wraps inner with a Redis cache. Cached entries expire after ttl.
func New(inner registry.ConfigStore, client Cache, ttl time.Duration, logger *slog.Logger) *ConfigStore {
	return &ConfigStore{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (s *ConfigStore) Fields(ctx context.Context) ([]model.FieldDefinition, error) {
	raw, err := s.client.Get(ctx, fieldsKey).Bytes()
	if err == nil {
		var fields []model.FieldDefinition
		if err := json.Unmarshal(raw, &fields); err == nil {
			return fields, nil
		}
		// A corrupt entry falls through to the source of truth.
		s.logger.Warn("discarding unreadable schema cache entry")
		_ = s.client.Del(ctx, fieldsKey).Err()
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("schema cache read failed", "error", err)
	}

	fields, err := s.inner.Fields(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(fields); err == nil {
		if err := s.client.Set(ctx, fieldsKey, encoded, s.ttl).Err(); err != nil {
			s.logger.Warn("schema cache write failed", "error", err)
		}
	}
	return fields, nil
}

// ReplaceFields writes through to the inner store, then drops the cached
// schema. The write is not reported successful until the stale entry is gone.
func (s *ConfigStore) ReplaceFields(ctx context.Context, fields []model.FieldDefinition) error {
	if err := s.inner.ReplaceFields(ctx, fields); err != nil {
		return err
	}
	if err := s.client.Del(ctx, fieldsKey).Err(); err != nil {
		return fmt.Errorf("invalidate schema cache: %w", err)
	}
	return nil
}

func (s *ConfigStore) LegacyLabel(ctx context.Context) (string, error) {
	return s.inner.LegacyLabel(ctx)
}
