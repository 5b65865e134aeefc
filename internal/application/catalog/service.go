// Package catalog serves categories and cuisines
package catalog

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"go.uber.org/zap"

	"github.com/pantrymatch/v1/internal/domain/shared"
	"github.com/pantrymatch/v1/internal/ports/inbound"
	"github.com/pantrymatch/v1/internal/ports/outbound"
	"github.com/pantrymatch/v1/pkg/errors"
)

const cuisinesKey = "catalog:cuisines"

// Service implements inbound.CatalogService. Cuisines rarely change and are
// cached for cuisinesTTL.
type Service struct {
	repo        outbound.CatalogRepository
	cache       outbound.CacheRepository
	cuisinesTTL time.Duration
	logger      *zap.Logger
}

// NewService creates a new catalog service
func NewService(
	repo outbound.CatalogRepository,
	cache outbound.CacheRepository,
	cuisinesTTL time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:        repo,
		cache:       cache,
		cuisinesTTL: cuisinesTTL,
		logger:      logger.Named("catalog-service"),
	}
}

var _ inbound.CatalogService = (*Service)(nil)

// ListCategories filters categories by case-insensitive substring
func (s *Service) ListCategories(ctx context.Context, query inbound.SearchQuery) (*inbound.CategoryList, error) {
	page, err := shared.NewPageRequest(query.Offset, query.PageSize)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	categories, total, err := s.repo.ListCategories(ctx, query.Query, page)
	if err != nil {
		return nil, errors.NewDatabaseError("list categories", err)
	}

	list := &inbound.CategoryList{
		Categories: make([]inbound.CategoryDTO, 0, len(categories)),
		PageDTO:    inbound.NewPageDTO(shared.NewPage(page, total)),
	}
	for _, c := range categories {
		list.Categories = append(list.Categories, inbound.CategoryDTO{ID: c.ID, Name: c.Name})
	}
	return list, nil
}

// ListCuisines returns every cuisine ordered by name
func (s *Service) ListCuisines(ctx context.Context) ([]inbound.CuisineDTO, error) {
	if cached, ok := s.cachedCuisines(ctx); ok {
		return cached, nil
	}

	cuisines, err := s.repo.ListCuisines(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list cuisines", err)
	}

	dtos := make([]inbound.CuisineDTO, 0, len(cuisines))
	for _, c := range cuisines {
		dtos = append(dtos, inbound.CuisineDTO{ID: c.ID, Name: c.Name})
	}

	if s.cache != nil {
		if data, err := json.Marshal(dtos); err == nil {
			if err := s.cache.Set(ctx, cuisinesKey, data, s.cuisinesTTL); err != nil {
				s.logger.Warn("Failed to cache cuisines", zap.Error(err))
			}
		}
	}
	return dtos, nil
}

// cache failures fall through to the database
func (s *Service) cachedCuisines(ctx context.Context) ([]inbound.CuisineDTO, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, cuisinesKey)
	if err != nil {
		if !stderrors.Is(err, outbound.ErrCacheMiss) {
			s.logger.Warn("Cuisine cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var dtos []inbound.CuisineDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		s.logger.Warn("Discarding corrupt cuisine cache entry", zap.Error(err))
		_ = s.cache.Delete(ctx, cuisinesKey)
		return nil, false
	}
	return dtos, true
}
