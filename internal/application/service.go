package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/nutshell-sh/nutshell/internal/domain"
	"github.com/nutshell-sh/nutshell/internal/pkg/metrics"
)

// maxCodeAttempts bounds how many times a generated code is retried when it
// collides with an existing one. Collisions on a 6-character alphanumeric
// code are rare enough that hitting the bound means something else is wrong.
const maxCodeAttempts = 5

// LinkService implements the management and resolution operations. All
// reads go through the link cache; creates go straight to the store (new
// links are not pre-warmed into the cache), and writes persist to the store
// first and then write the updated record back to the cache.
type LinkService struct {
	repo       domain.LinkRepository
	cache      domain.LinkCache
	validate   *validator.Validate
	logger     *slog.Logger
	metrics    metrics.Registry
	codeLength int
}

func NewLinkService(repo domain.LinkRepository, cache domain.LinkCache, codeLength int, logger *slog.Logger, registry metrics.Registry) *LinkService {
	if registry == nil {
		registry = metrics.NewNoOpRegistry()
	}
	return &LinkService{
		repo:       repo,
		cache:      cache,
		validate:   validator.New(),
		logger:     logger,
		metrics:    registry,
		codeLength: codeLength,
	}
}

type CreateLinkRequest struct {
	Code     string  `json:"code,omitempty" validate:"omitempty,alphanum,min=2,max=100"`
	URL      string  `json:"url" validate:"required,url"`
	Password *string `json:"password,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// UpdateLinkRequest carries the patchable fields of a link. Immutable
// fields (code, created_at, visit_count, last_visited) have no slot here,
// so they are silently dropped from incoming patches. PasswordSet
// distinguishes an explicit `"password": null` (clear the password) from
// the key being absent.
type UpdateLinkRequest struct {
	URL           *string `json:"url,omitempty" validate:"omitempty,url"`
	Password      *string `json:"password,omitempty"`
	Active        *bool   `json:"active,omitempty"`
	RawVisitCount *int64  `json:"raw_visit_count,omitempty"`
	PasswordSet   bool    `json:"-"`
}

// CreateLink validates the request and persists a new link. A supplied code
// that already exists is a conflict; a generated code is retried on
// collision. The new link is not inserted into the cache.
func (s *LinkService) CreateLink(ctx context.Context, req CreateLinkRequest) (*domain.Link, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	if req.Code != "" {
		exists, err := s.repo.Exists(ctx, req.Code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrCodeExists
		}

		link, err := domain.NewLink(req.Code, req.URL, req.Password, active)
		if err != nil {
			return nil, err
		}
		created, err := s.repo.Create(ctx, link)
		if err != nil {
			return nil, err
		}
		s.metrics.IncLinksCreated()
		s.logger.Info("Link created", "code", created.Code)
		return created, nil
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := domain.GenerateCode(s.codeLength)
		link, err := domain.NewLink(code, req.URL, req.Password, active)
		if err != nil {
			return nil, err
		}

		created, err := s.repo.Create(ctx, link)
		if errors.Is(err, domain.ErrCodeExists) {
			s.logger.Warn("Generated code collided, retrying", "code", code, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, err
		}
		s.metrics.IncLinksCreated()
		s.logger.Info("Link created", "code", created.Code)
		return created, nil
	}

	return nil, fmt.Errorf("could not generate a unique code after %d attempts", maxCodeAttempts)
}

// GetLink returns the link for a code, checking the cache first. Management
// reads are silent lookups: inspecting a link does not count as an access
// for eviction purposes.
func (s *LinkService) GetLink(ctx context.Context, code string) (*domain.Link, error) {
	return s.cache.GetOrFetch(ctx, code, true)
}

// ListLinks returns every link from the store. The cache is bypassed; this
// is a full scan.
func (s *LinkService) ListLinks(ctx context.Context) ([]*domain.Link, error) {
	return s.repo.List(ctx)
}

// UpdateLink applies a patch to a link and persists it, then writes the
// updated record back to the cache.
func (s *LinkService) UpdateLink(ctx context.Context, code string, req UpdateLinkRequest) (*domain.Link, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	link, err := s.cache.GetOrFetch(ctx, code, true)
	if err != nil {
		return nil, err
	}

	if req.URL != nil {
		link.URL = *req.URL
	}
	if req.PasswordSet {
		link.Password = req.Password
	}
	if req.Active != nil {
		link.Active = *req.Active
	}
	if req.RawVisitCount != nil {
		link.RawVisitCount = *req.RawVisitCount
	}

	if err := s.repo.Update(ctx, link); err != nil {
		return nil, err
	}
	s.cache.Insert(ctx, link)

	s.logger.Info("Link updated", "code", code)
	return link, nil
}

// DeleteLink removes a link from the cache and the store.
func (s *LinkService) DeleteLink(ctx context.Context, code string) error {
	if _, err := s.cache.GetOrFetch(ctx, code, true); err != nil {
		return err
	}

	s.cache.Delete(ctx, code)
	if err := s.repo.Delete(ctx, code); err != nil {
		return err
	}

	s.logger.Info("Link deleted", "code", code)
	return nil
}

// ResolveLink looks up a link for a visitor. Visitor traffic promotes the
// entry in the cache, unlike management reads. An inactive link resolves to
// ErrLinkInactive.
func (s *LinkService) ResolveLink(ctx context.Context, code string) (*domain.Link, error) {
	link, err := s.cache.GetOrFetch(ctx, code, false)
	if err != nil {
		return nil, err
	}
	if !link.Active {
		return nil, domain.ErrLinkInactive
	}
	return link, nil
}

// RegisterAttempt bumps the raw visit counter, recording that the link's
// resolution page was served before any password check.
func (s *LinkService) RegisterAttempt(ctx context.Context, link *domain.Link) error {
	link.RegisterAttempt()
	if err := s.repo.Update(ctx, link); err != nil {
		return err
	}
	s.cache.Insert(ctx, link)
	return nil
}

// RegisterVisit records a successful redirect: visit counter and last
// visited timestamp are updated and persisted.
func (s *LinkService) RegisterVisit(ctx context.Context, link *domain.Link) error {
	link.RegisterVisit()
	if err := s.repo.Update(ctx, link); err != nil {
		return err
	}
	s.cache.Insert(ctx, link)
	s.metrics.IncRedirects()
	return nil
}
