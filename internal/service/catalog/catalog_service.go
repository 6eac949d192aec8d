package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/avelkov/tripdesk/internal/domain"
	"github.com/avelkov/tripdesk/internal/ordering"
	"github.com/avelkov/tripdesk/internal/repository"
)

type CatalogUseCase interface {
	List(ctx context.Context, resource domain.CatalogResource) ([]domain.CatalogEntry, error)
	Reorder(ctx context.Context, resource domain.CatalogResource, ids []string) error
}

type Cache interface {
	GetCatalog(ctx context.Context, resource domain.CatalogResource) ([]domain.CatalogEntry, error)
	SetCatalog(ctx context.Context, resource domain.CatalogResource, entries []domain.CatalogEntry) error
	InvalidateCatalog(ctx context.Context, resource domain.CatalogResource) error
	AcquireReorderLock(ctx context.Context, resource domain.CatalogResource, ttl time.Duration) (bool, error)
	ReleaseReorderLock(ctx context.Context, resource domain.CatalogResource) error
}

type CatalogService struct {
	repo    repository.CatalogRepository
	cache   Cache
	lockTTL time.Duration
}

func NewCatalogService(repo repository.CatalogRepository, cache Cache, lockTTL time.Duration) *CatalogService {
	return &CatalogService{repo: repo, cache: cache, lockTTL: lockTTL}
}

// List returns the collection ascending by position, array order as the
// tiebreak. The cache is best-effort; a cache failure falls through to the
// database.
func (s *CatalogService) List(ctx context.Context, resource domain.CatalogResource) ([]domain.CatalogEntry, error) {
	if !domain.KnownResource(string(resource)) {
		return nil, domain.ErrUnknownResource
	}

	if s.cache != nil {
		cached, err := s.cache.GetCatalog(ctx, resource)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	entries, err := s.repo.List(ctx, resource)
	if err != nil {
		return nil, err
	}
	ordering.SortByPosition(entries)

	if s.cache != nil {
		_ = s.cache.SetCatalog(ctx, resource, entries)
	}
	return entries, nil
}

// Reorder persists a full desired order for the collection. Only one
// reorder per resource may be in flight; a concurrent attempt gets
// ErrReorderInFlight instead of being interleaved.
func (s *CatalogService) Reorder(ctx context.Context, resource domain.CatalogResource, ids []string) error {
	if !domain.KnownResource(string(resource)) {
		return domain.ErrUnknownResource
	}
	if len(ids) == 0 {
		return errors.New("ids are required")
	}

	if s.cache != nil {
		ok, err := s.cache.AcquireReorderLock(ctx, resource, s.lockTTL)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrReorderInFlight
		}
		defer func() { _ = s.cache.ReleaseReorderLock(ctx, resource) }()
	}

	if err := s.repo.Reorder(ctx, resource, ids); err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateCatalog(ctx, resource)
	}
	return nil
}

var _ CatalogUseCase = (*CatalogService)(nil)
