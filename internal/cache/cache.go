package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	categoryPrefix = "catalog:category:"
	pagePrefix     = "catalog:page:v:"
	versionKey     = "catalog:version"

	DefaultTTL = 10 * time.Minute
)

// Catalog caches category documents and rendered public pages in Redis.
// Listing-page keys embed a version number; mutations bump the version so
// every cached page goes stale at once instead of being enumerated and
// deleted. A nil client disables caching entirely.
type Catalog struct {
	rdb    *redis.Client
	logger *zap.SugaredLogger
	ttl    time.Duration
}

func New(rdb *redis.Client, logger *zap.SugaredLogger) *Catalog {
	return &Catalog{rdb: rdb, logger: logger, ttl: DefaultTTL}
}

func (c *Catalog) enabled() bool {
	return c != nil && c.rdb != nil
}

func (c *Catalog) version(ctx context.Context) int64 {
	v, err := c.rdb.Get(ctx, versionKey).Int64()
	if err != nil {
		return 0
	}
	return v
}

// GetCategory loads a cached category document by slug into out.
func (c *Catalog) GetCategory(ctx context.Context, slug string, out any) bool {
	if !c.enabled() {
		return false
	}
	data, err := c.rdb.Get(ctx, categoryPrefix+slug).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Warnw("failed to unmarshal cached category", "slug", slug, "error", err)
		return false
	}
	return true
}

// SetCategoryAsync caches a category document without blocking the request.
func (c *Catalog) SetCategoryAsync(slug string, category any) {
	if !c.enabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data, err := json.Marshal(category)
		if err != nil {
			c.logger.Warnw("failed to marshal category for cache", "slug", slug, "error", err)
			return
		}
		if err := c.rdb.Set(ctx, categoryPrefix+slug, data, c.ttl).Err(); err != nil {
			c.logger.Warnw("failed to cache category", "slug", slug, "error", err)
		}
	}()
}

// GetPage returns a cached rendered page body for the current version.
func (c *Catalog) GetPage(ctx context.Context, path string) ([]byte, bool) {
	if !c.enabled() {
		return nil, false
	}
	key := fmt.Sprintf("%s%d:%s", pagePrefix, c.version(ctx), path)
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetPageAsync caches a rendered page body under the current version.
func (c *Catalog) SetPageAsync(path string, body []byte) {
	if !c.enabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		key := fmt.Sprintf("%s%d:%s", pagePrefix, c.version(ctx), path)
		if err := c.rdb.Set(ctx, key, body, c.ttl).Err(); err != nil {
			c.logger.Warnw("failed to cache page", "path", path, "error", err)
		}
	}()
}

// Invalidate drops a category's cached document and bumps the page version
// so all cached listing pages expire. Called after every catalog mutation.
func (c *Catalog) Invalidate(ctx context.Context, slugs ...string) {
	if !c.enabled() {
		return
	}
	for _, slug := range slugs {
		if err := c.rdb.Del(ctx, categoryPrefix+slug).Err(); err != nil {
			c.logger.Warnw("failed to drop cached category", "slug", slug, "error", err)
		}
	}
	if err := c.rdb.Incr(ctx, versionKey).Err(); err != nil {
		c.logger.Warnw("failed to bump page cache version", "error", err)
	}
}
