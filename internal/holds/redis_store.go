package holds

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps holds as JSON values with a native TTL, for deployments
// that want holds to survive an engine restart.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func holdKey(id string) string {
	return fmt.Sprintf("tourbook:hold:%s", id)
}

func (s *RedisStore) Put(ctx context.Context, hold *Hold) error {
	data, err := json.Marshal(hold)
	if err != nil {
		return fmt.Errorf("failed to marshal hold: %w", err)
	}

	ttl := time.Until(hold.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, holdKey(hold.ID), data, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Hold, error) {
	val, err := s.client.Get(ctx, holdKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrHoldNotFound
		}
		return nil, fmt.Errorf("failed to read hold: %w", err)
	}

	var hold Hold
	if err := json.Unmarshal([]byte(val), &hold); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hold: %w", err)
	}
	return &hold, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, holdKey(id)).Err()
}

// PurgeExpired is a no-op: Redis expires hold keys natively.
func (s *RedisStore) PurgeExpired(context.Context, time.Time) int {
	return 0
}
