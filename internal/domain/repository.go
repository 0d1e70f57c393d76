package domain

import "context"

type LinkRepository interface {
	Create(ctx context.Context, link *Link) (*Link, error)
	FindByCode(ctx context.Context, code string) (*Link, error)
	Update(ctx context.Context, link *Link) error
	Delete(ctx context.Context, code string) error
	List(ctx context.Context) ([]*Link, error)
	Exists(ctx context.Context, code string) (bool, error)
	Close() error
	HealthCheck(ctx context.Context) error
}
