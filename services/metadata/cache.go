package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
)

// Cache stores decoded catalog responses by key. Get reports whether the
// key was found and decoded into v.
type Cache interface {
	Get(ctx context.Context, key string, v any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Clear(ctx context.Context) error
}

type cacheEntry struct {
	StoredAt time.Time       `json:"storedAt"`
	Payload  json.RawMessage `json:"payload"`
}

// FileCache keeps one JSON file per key under dir. Entries older than the
// TTL are treated as missing and removed on read.
type FileCache struct {
	fs  afero.Fs
	dir string
	ttl time.Duration
	now func() time.Time
}

func NewFileCache(fs afero.Fs, dir string, ttl time.Duration) (*FileCache, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dir == "" {
		return nil, errors.New("cache directory is required")
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileCache{fs: fs, dir: dir, ttl: ttl, now: time.Now}, nil
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *FileCache) Get(_ context.Context, key string, v any) (bool, error) {
	data, err := afero.ReadFile(c.fs, c.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = c.fs.Remove(c.path(key))
		return false, nil
	}
	if c.ttl > 0 && c.now().Sub(entry.StoredAt) > c.ttl {
		_ = c.fs.Remove(c.path(key))
		return false, nil
	}
	if err := json.Unmarshal(entry.Payload, v); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *FileCache) Set(_ context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data, err := json.Marshal(cacheEntry{StoredAt: c.now(), Payload: payload})
	if err != nil {
		return err
	}

	tmp := c.path(key) + ".tmp"
	if err := afero.WriteFile(c.fs, tmp, data, 0o644); err != nil {
		return err
	}
	return c.fs.Rename(tmp, c.path(key))
}

// Clear removes every cached entry.
func (c *FileCache) Clear(_ context.Context) error {
	entries, err := afero.ReadDir(c.fs, c.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := c.fs.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

const redisKeyPrefix = "marquee:tmdb:"

// RedisCache is a cache-aside layer on Redis. With no URL, or when the
// server cannot be reached at startup, every operation is a no-op.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(redisURL string, ttl time.Duration) *RedisCache {
	if redisURL == "" {
		log.Println("[cache] no redis URL configured, redis cache disabled")
		return &RedisCache{ttl: ttl}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("[cache] invalid redis URL, redis cache disabled: %v", err)
		return &RedisCache{ttl: ttl}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[cache] redis connection failed, redis cache disabled: %v", err)
		_ = rdb.Close()
		return &RedisCache{ttl: ttl}
	}

	log.Println("[cache] redis connected")
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// Enabled reports whether a Redis connection is in use.
func (c *RedisCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Client returns the underlying client for health checks. May be nil.
func (c *RedisCache) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.rdb
}

func (c *RedisCache) Get(ctx context.Context, key string, v any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	data, err := c.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, v any) error {
	if !c.Enabled() {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err()
}

// Clear deletes every key under the catalog prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	iter := c.rdb.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *RedisCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}
