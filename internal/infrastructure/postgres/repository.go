package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING code, url, password, created_at, active, visit_count, raw_visit_count, last_visited
	`

	var created domain.Link
	err := r.db.QueryRowxContext(ctx, query,
		link.Code, link.URL, link.Password, link.CreatedAt,
		link.Active, link.VisitCount, link.RawVisitCount, link.LastVisited,
	).StructScan(&created)
	if err != nil {
		return nil, r.handlePostgresError(err, "create link")
	}

	slog.Debug("Link created", "code", created.Code)
	return &created, nil
}

func (r *LinkRepository) FindByCode(ctx context.Context, code string) (*domain.Link, error) {
	var link domain.Link
	query := `SELECT * FROM links WHERE code = $1`

	err := r.db.GetContext(ctx, &link, query, code)
	if err != nil {
		return nil, r.handlePostgresError(err, "find link by code")
	}

	return &link, nil
}

func (r *LinkRepository) Update(ctx context.Context, link *domain.Link) error {
	query := `
		UPDATE links
		SET url = $2, password = $3, active = $4,
		    visit_count = $5, raw_visit_count = $6, last_visited = $7
		WHERE code = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		link.Code, link.URL, link.Password, link.Active,
		link.VisitCount, link.RawVisitCount, link.LastVisited,
	)
	if err != nil {
		return r.handlePostgresError(err, "update link")
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
		return r.handlePostgresError(err, "delete link")
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
		return nil, r.handlePostgresError(err, "list links")
	}

	return links, nil
}

func (r *LinkRepository) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM links WHERE code = $1)`

	err := r.db.GetContext(ctx, &exists, query, code)
	if err != nil {
		return false, r.handlePostgresError(err, "check link existence")
	}

	return exists, nil
}

// handlePostgresError converts PostgreSQL-specific errors to domain errors
func (r *LinkRepository) handlePostgresError(err error, operation string) error {
	if pqErr, ok := err.(*pq.Error); ok {
		slog.Error("PostgreSQL error",
			"operation", operation,
			"code", pqErr.Code,
			"message", pqErr.Message,
			"detail", pqErr.Detail,
		)

		switch pqErr.Code {
		case "23505": // unique_violation
			if pqErr.Constraint == "links_pkey" {
				return domain.ErrCodeExists
			}
			return fmt.Errorf("unique constraint violation: %s", pqErr.Detail)
		case "23502": // not_null_violation
			return fmt.Errorf("required field missing: %s", pqErr.Column)
		case "08000", "08003", "08006": // connection errors
			return fmt.Errorf("database connection error: %s", pqErr.Message)
		default:
			return fmt.Errorf("database error [%s]: %s", pqErr.Code, pqErr.Message)
		}
	}

	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrLinkNotFound
	}

	return err
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
