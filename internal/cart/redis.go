package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStorage persists each cart as a JSON array under cart:<key>.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage wraps the given client.
func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

func storageKey(key string) string {
	return "cart:" + key
}

// Load reads and decodes the slot. A missing slot yields an empty cart.
// A malformed payload also yields an empty cart rather than an error: the
// cart must always rehydrate to something usable.
func (s *RedisStorage) Load(ctx context.Context, key string) ([]LineItem, error) {
	data, err := s.client.Get(ctx, storageKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	return decodeSlot(data), nil
}

// decodeSlot parses the persisted JSON array. Malformed data falls back to
// an empty cart rather than failing the load.
func decodeSlot(data []byte) []LineItem {
	var lines []LineItem
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil
	}
	return lines
}

func (s *RedisStorage) Save(ctx context.Context, key string, lines []LineItem) error {
	if lines == nil {
		lines = []LineItem{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.client.Set(ctx, storageKey(key), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, storageKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}
