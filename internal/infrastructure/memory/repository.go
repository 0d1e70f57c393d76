package memory

import (
	"context"
	"sync"

	"github.com/nutshell-sh/nutshell/internal/domain"
)

type LinkRepository struct {
	links map[string]*domain.Link
	mu    sync.RWMutex
}

func NewLinkRepository() *LinkRepository {
	return &LinkRepository{
		links: make(map[string]*domain.Link),
	}
}

func (r *LinkRepository) Create(ctx context.Context, link *domain.Link) (*domain.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.links[link.Code]; exists {
		return nil, domain.ErrCodeExists
	}

	stored := link.Clone()
	r.links[link.Code] = stored
	return stored.Clone(), nil
}

func (r *LinkRepository) FindByCode(ctx context.Context, code string) (*domain.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	link, exists := r.links[code]
	if !exists {
		return nil, domain.ErrLinkNotFound
	}

	return link.Clone(), nil
}

func (r *LinkRepository) Update(ctx context.Context, link *domain.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.links[link.Code]; !exists {
		return domain.ErrLinkNotFound
	}

	r.links[link.Code] = link.Clone()
	return nil
}

func (r *LinkRepository) Delete(ctx context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.links[code]; !exists {
		return domain.ErrLinkNotFound
	}

	delete(r.links, code)
	return nil
}

func (r *LinkRepository) List(ctx context.Context) ([]*domain.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	links := make([]*domain.Link, 0, len(r.links))
	for _, link := range r.links {
		links = append(links, link.Clone())
	}
	return links, nil
}

func (r *LinkRepository) Exists(ctx context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.links[code]
	return exists, nil
}

func (r *LinkRepository) Close() error {
	return nil
}

func (r *LinkRepository) HealthCheck(ctx context.Context) error {
	return nil
}
