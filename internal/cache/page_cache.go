package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// PageCache caches rendered listing pages. Entries expire after a TTL and a
// whole namespace can be invalidated at once after a write.
//
// Key pins the namespace version for one read: a miss must be filled with Set
// on the key returned before the database read, so a page read before an
// Invalidate never lands under the new version.
type PageCache interface {
	Key(ctx context.Context, namespace, key string) (string, error)
	Get(ctx context.Context, pageKey string, dest any) (bool, error)
	Set(ctx context.Context, pageKey string, value any) error
	Invalidate(ctx context.Context, namespace string) error
}

// RedisPageCache keeps one version counter per namespace. Page keys embed the
// current version, so Invalidate is a single INCR and old pages simply age out.
type RedisPageCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func NewRedisPageCache(client *redis.Client, prefix string, ttl time.Duration) *RedisPageCache {
	if prefix == "" {
		prefix = "yatube"
	}
	if ttl <= 0 {
		ttl = 20 * time.Second
	}
	return &RedisPageCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisPageCache) versionKey(namespace string) string {
	return fmt.Sprintf("%s:%s:version", c.prefix, namespace)
}

func (c *RedisPageCache) version(ctx context.Context, namespace string) (int64, error) {
	v, err := c.client.Get(ctx, c.versionKey(namespace)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Key 返回当前版本下的页面 key
func (c *RedisPageCache) Key(ctx context.Context, namespace, key string) (string, error) {
	v, err := c.version(ctx, namespace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:v%d:%s", c.prefix, namespace, v, key), nil
}

func (c *RedisPageCache) Get(ctx context.Context, pageKey string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, pageKey).Bytes()
	if errors.Is(err, redis.Nil) {
		c.misses.Add(1)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// 旧格式或损坏的条目当作未命中
		c.misses.Add(1)
		return false, nil
	}
	c.hits.Add(1)
	return true, nil
}

func (c *RedisPageCache) Set(ctx context.Context, pageKey string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return c.client.Set(ctx, pageKey, payload, c.ttl).Err()
}

func (c *RedisPageCache) Invalidate(ctx context.Context, namespace string) error {
	return c.client.Incr(ctx, c.versionKey(namespace)).Err()
}

// Stats reports hit/miss counters since start.
func (c *RedisPageCache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Stats summarises cache effectiveness.
type Stats struct {
	Hits   int64
	Misses int64
}

// Nop never stores anything; used when Redis is disabled.
type Nop struct{}

func (Nop) Key(_ context.Context, _, key string) (string, error) { return key, nil }
func (Nop) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (Nop) Set(context.Context, string, any) error                { return nil }
func (Nop) Invalidate(context.Context, string) error              { return nil }

// NewRedisClient builds a client and checks connectivity.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis at %s: %w", addr, err)
	}
	return client, nil
}
