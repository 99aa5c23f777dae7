package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const envRedisURL = "TIXTE_CACHE_REDIS"

// redisKeyPrefix namespaces this tool's entries on shared Redis servers.
const redisKeyPrefix = "tixte-cli:"

const redisOpTimeout = 2 * time.Second

// RedisStore keeps one cache entry in Redis with a server-side TTL.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store on an existing client.
func NewRedisStore(client *redis.Client, key, baseURL, profile string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		key:    redisKeyPrefix + cacheKey(key, baseURL, profile),
		ttl:    ttl,
	}
}

func newRedisStore(url, key, baseURL, profile string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return NewRedisStore(redis.NewClient(opts), key, baseURL, profile, ttl), nil
}

func (s *RedisStore) Get(dst any) bool {
	if disabled() {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (s *RedisStore) Put(items any) {
	if disabled() {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	_ = s.client.Set(ctx, s.key, data, s.ttl).Err()
}

func (s *RedisStore) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	_ = s.client.Del(ctx, s.key).Err()
}

// ClearAllRedis removes every entry this tool stored on the server.
func ClearAllRedis(client *redis.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	iter := client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		_ = client.Del(ctx, iter.Val()).Err()
	}
}
