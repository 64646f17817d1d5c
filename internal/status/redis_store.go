package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/medias-conversion-ms/internal/logger"
	"github.com/fhuszti/medias-conversion-ms/internal/model"
	"github.com/fhuszti/medias-conversion-ms/internal/port"
	"github.com/fhuszti/medias-conversion-ms/internal/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 24 * time.Hour

// RedisStore keeps conversion records as JSON under "conversion:{id}". Every
// save refreshes the TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// compile-time check: *RedisStore must satisfy port.StatusStore
var _ port.StatusStore = (*RedisStore)(nil)

func NewRedisStore(addr, password string, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	return newStore(rdb, ttl)
}

func newStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: rdb, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, c *model.Conversion) error {
	logger.Debugf(ctx, "saving conversion #%s with status %s...", c.ID, c.Status)

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	if err := s.client.Set(ctx, key(c.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Get returns nil, nil when the conversion is unknown or expired.
func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*model.Conversion, error) {
	val, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var c model.Conversion
	if err := json.Unmarshal(val, &c); err != nil {
		return nil, fmt.Errorf("unmarshal failed: %w", err)
	}
	return &c, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func key(id uuid.UUID) string {
	return "conversion:" + id.String()
}
