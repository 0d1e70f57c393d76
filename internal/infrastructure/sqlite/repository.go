package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nutshell-sh/nutshell/internal/domain"
)

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Create(ctx context.Context, link *domain.Link) (*domain.Link, error) {
	query := `
		INSERT INTO links (code, url, password, created_at, active, visit_count, raw_visit_count, last_visited)
		VALUES (:code, :url, :password, :created_at, :active, :visit_count, :raw_visit_count, :last_visited)
	`

	_, err := r.db.NamedExecContext(ctx, query, link)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, domain.ErrCodeExists
		}
		return nil, err
	}

	return link.Clone(), nil
}

func (r *LinkRepository) FindByCode(ctx context.Context, code string) (*domain.Link, error) {
	var link domain.Link
	query := `SELECT * FROM links WHERE code = $1`

	err := r.db.GetContext(ctx, &link, query, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, err
	}

	return &link, nil
}

func (r *LinkRepository) Update(ctx context.Context, link *domain.Link) error {
	query := `
		UPDATE links
		SET url = :url, password = :password, active = :active,
		    visit_count = :visit_count, raw_visit_count = :raw_visit_count, last_visited = :last_visited
		WHERE code = :code
	`

	result, err := r.db.NamedExecContext(ctx, query, link)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrLinkNotFound
	}

	return nil
}

func (r *LinkRepository) Delete(ctx context.Context, code string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM links WHERE code = $1`, code)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrLinkNotFound
	}

	return nil
}

func (r *LinkRepository) List(ctx context.Context) ([]*domain.Link, error) {
	links := []*domain.Link{}
	query := `SELECT * FROM links ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &links, query); err != nil {
		return nil, err
	}

	return links, nil
}

func (r *LinkRepository) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM links WHERE code = $1)`

	err := r.db.GetContext(ctx, &exists, query, code)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *LinkRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *LinkRepository) HealthCheck(ctx context.Context) error {
	if r.db == nil {
		return errors.New("database connection is nil")
	}
	return r.db.PingContext(ctx)
}
