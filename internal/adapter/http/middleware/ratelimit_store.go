package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of one fixed-window rate limit check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RateLimitStore counts hits per key inside a fixed window.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
	Close() error
}

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

// MemoryStore keeps counters in process. Suitable for a single instance.
type MemoryStore struct {
	cache *cache.Cache
	mutex sync.Mutex
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: cache.New(5*time.Minute, 10*time.Minute),
		now:   time.Now,
	}
}

func (s *MemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration) (Decision, error) {
	now := s.now()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if value, found := s.cache.Get(key); found {
		entry := value.(rateLimitEntry)

		if now.Before(entry.ResetTime) {
			if entry.Count >= limit {
				return Decision{Allowed: false, Remaining: 0, ResetAt: entry.ResetTime}, nil
			}

			entry.Count++
			s.cache.Set(key, entry, entry.ResetTime.Sub(now))

			return Decision{Allowed: true, Remaining: limit - entry.Count, ResetAt: entry.ResetTime}, nil
		}
	}

	entry := rateLimitEntry{Count: 1, ResetTime: now.Add(window)}
	s.cache.Set(key, entry, window)

	return Decision{Allowed: true, Remaining: limit - 1, ResetAt: entry.ResetTime}, nil
}

func (s *MemoryStore) ItemCount() int {
	return s.cache.ItemCount()
}

func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}

// INCR and the first PEXPIRE run atomically so a crash between them cannot
// leave a counter without a TTL.
var incrementScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

// RedisStore shares counters between instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}

	return &RedisStore{client: client, prefix: "itemtracker:"}, nil
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	values, err := incrementScript.Run(ctx, s.client, []string{s.prefix + key}, window.Milliseconds()).Int64Slice()

	if err != nil {
		return Decision{}, fmt.Errorf("rate limit increment: %w", err)
	}

	if len(values) != 2 {
		return Decision{}, fmt.Errorf("rate limit increment: unexpected reply %v", values)
	}

	count, ttl := int(values[0]), time.Duration(values[1])*time.Millisecond

	if ttl < 0 {
		ttl = window
	}

	remaining := limit - count

	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(ttl),
	}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
