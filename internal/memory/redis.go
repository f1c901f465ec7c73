package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultHashKey = "jade:memory"

// RedisStore keeps entries in a single redis hash so several dashboards share
// the same context.
type RedisStore struct {
	rdb *redis.Client
	key string
}

// NewRedisStore connects and pings; an unreachable server is a load failure.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("memory: parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("memory: redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb, key: defaultHashKey}, nil
}

func (s *RedisStore) Put(ctx context.Context, key, value string) error {
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if key == "" || value == "" {
		return ErrEmptyEntry
	}
	if err := s.rdb.HSet(ctx, s.key, key, value).Err(); err != nil {
		return fmt.Errorf("memory: hset %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) GetAll(ctx context.Context) (map[string]string, error) {
	out, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("memory: hgetall: %w", err)
	}
	return out, nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
