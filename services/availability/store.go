package availability

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned by a Store when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Store is the minimal key-value surface the cache needs. The production
// implementation is Redis; tests substitute an in-memory fake.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
	// SetIfGeneration writes the entry only if the generation counter at
	// genKey still holds expected (an absent counter reads as 0), evaluated
	// atomically with the write. Reports whether the write happened.
	SetIfGeneration(ctx context.Context, key, value string, ttl time.Duration, genKey string, expected int64) (bool, error)
}

type redisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a Redis client as a Store.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

// setIfGenerationScript guards a cache write against invalidations that
// landed after the writer snapshotted the generation counter.
var setIfGenerationScript = redis.NewScript(`
local cur = redis.call("GET", KEYS[2])
if cur == false then cur = "0" end
if cur == ARGV[1] then
  redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
  return 1
end
return 0
`)

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *redisStore) Incr(ctx context.Context, key string) (int64, error) {
	return s.client.Incr(ctx, key).Result()
}

func (s *redisStore) SetIfGeneration(ctx context.Context, key, value string, ttl time.Duration, genKey string, expected int64) (bool, error) {
	res, err := setIfGenerationScript.Run(ctx, s.client,
		[]string{key, genKey},
		strconv.FormatInt(expected, 10), value, ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}
