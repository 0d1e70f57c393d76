package cache

import (
	"context"

	"github.com/nutshell-sh/nutshell/internal/domain"
)

// NoOpCache is a pass-through implementation used when caching is disabled.
// Every GetOrFetch goes straight to the backing store.
type NoOpCache struct {
	repo domain.LinkRepository
}

func NewNoOpCache(repo domain.LinkRepository) *NoOpCache {
	return &NoOpCache{repo: repo}
}

func (c *NoOpCache) Insert(_ context.Context, _ *domain.Link) {}

func (c *NoOpCache) Lookup(_ context.Context, _ string, _ bool) (*domain.Link, bool) {
	// Always a miss
	return nil, false
}

func (c *NoOpCache) Delete(_ context.Context, _ string) (*domain.Link, bool) {
	return nil, false
}

func (c *NoOpCache) GetOrFetch(ctx context.Context, code string, _ bool) (*domain.Link, error) {
	return c.repo.FindByCode(ctx, code)
}

func (c *NoOpCache) Ping(_ context.Context) error {
	return nil
}
