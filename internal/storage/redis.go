package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 5 * time.Second

// RedisStore keeps JSON-encoded records under a key prefix. It satisfies the
// same Store contract as MemoryStore so the session layer does not care which
// one it is handed.
type RedisStore[V any] struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a RedisStore using the given client and key prefix
// (e.g. "profiles").
func NewRedisStore[V any](client *redis.Client, prefix string) *RedisStore[V] {
	return &RedisStore[V]{client: client, prefix: prefix}
}

func (s *RedisStore[V]) key(id string) string {
	return s.prefix + ":" + id
}

func (s *RedisStore[V]) Put(id string, v V) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("redis store %s: failed to marshal record %s: %w", s.prefix, id, err)
	}
	if err := s.client.Set(ctx, s.key(id), data, 0).Err(); err != nil {
		return fmt.Errorf("redis store %s: failed to put %s: %w", s.prefix, id, err)
	}
	return nil
}

func (s *RedisStore[V]) Get(id string) (V, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	var v V
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("redis store %s: failed to get %s: %v", s.prefix, id, err)
		}
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("redis store %s: failed to unmarshal record %s: %v", s.prefix, id, err)
		return v, false
	}
	return v, true
}

func (s *RedisStore[V]) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis store %s: failed to delete %s: %w", s.prefix, id, err)
	}
	return nil
}

// All scans the key space under the prefix. Records that fail to decode are
// skipped.
func (s *RedisStore[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
		defer cancel()

		it := s.client.Scan(ctx, 0, s.prefix+":*", 100).Iterator()
		for it.Next(ctx) {
			key := it.Val()
			id := strings.TrimPrefix(key, s.prefix+":")
			v, ok := s.Get(id)
			if !ok {
				continue
			}
			if !yield(id, v) {
				return
			}
		}
		if err := it.Err(); err != nil {
			log.Printf("redis store %s: scan failed: %v", s.prefix, err)
		}
	}
}
