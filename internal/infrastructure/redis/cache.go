// Package redis provides a Redis-backed implementation of the link cache
// for deployments running more than one process. Recency tracking and
// eviction are delegated to Redis itself (TTL plus the server's configured
// maxmemory policy); the silent flag has no effect here.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nutshell-sh/nutshell/internal/domain"
)

type Cache struct {
	client *redis.Client
	repo   domain.LinkRepository
	ttl    time.Duration
	logger *slog.Logger
}

func NewCache(client *redis.Client, repo domain.LinkRepository, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		client: client,
		repo:   repo,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *Cache) Insert(ctx context.Context, link *domain.Link) {
	data, err := json.Marshal(link)
	if err != nil {
		c.logger.Error("Failed to marshal link for cache", "code", link.Code, "error", err)
		return
	}

	if err := c.client.Set(ctx, c.buildKey(link.Code), data, c.ttl).Err(); err != nil {
		c.logger.Error("Failed to set cache", "code", link.Code, "error", err)
	}
}

func (c *Cache) Lookup(ctx context.Context, code string, _ bool) (*domain.Link, bool) {
	val, err := c.client.Get(ctx, c.buildKey(code)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Error("Failed to get from cache", "code", code, "error", err)
		}
		return nil, false
	}

	var link domain.Link
	if err := json.Unmarshal([]byte(val), &link); err != nil {
		c.logger.Error("Failed to unmarshal cached link", "code", code, "error", err)
		return nil, false
	}

	return &link, true
}

func (c *Cache) Delete(ctx context.Context, code string) (*domain.Link, bool) {
	link, ok := c.Lookup(ctx, code, true)
	if !ok {
		return nil, false
	}

	if err := c.client.Del(ctx, c.buildKey(code)).Err(); err != nil {
		c.logger.Error("Failed to delete from cache", "code", code, "error", err)
		return nil, false
	}

	return link, true
}

func (c *Cache) GetOrFetch(ctx context.Context, code string, silent bool) (*domain.Link, error) {
	if link, ok := c.Lookup(ctx, code, silent); ok {
		return link, nil
	}

	link, err := c.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	c.Insert(ctx, link)
	return link.Clone(), nil
}

func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *Cache) buildKey(code string) string {
	return fmt.Sprintf("link:%s", code)
}
