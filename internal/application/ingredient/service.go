// Package ingredient implements the fuzzy ingredient resolver and catalog
// search use cases.
package ingredient

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pantrymatch/v1/internal/domain/ingredient"
	"github.com/pantrymatch/v1/internal/domain/shared"
	"github.com/pantrymatch/v1/internal/ports/inbound"
	"github.com/pantrymatch/v1/internal/ports/outbound"
	"github.com/pantrymatch/v1/pkg/errors"
)

// Service resolves free-text names against the ingredient catalog
type Service struct {
	repo       outbound.IngredientRepository
	similarity ingredient.Similarity
	thresholds ingredient.Thresholds
	metrics    outbound.EngineMetrics
	tracer     trace.Tracer
	logger     *zap.Logger
}

// Option customises a Service
type Option func(*Service)

// WithSimilarity replaces the trigram similarity function
func WithSimilarity(sim ingredient.Similarity) Option {
	return func(s *Service) { s.similarity = sim }
}

// WithMetrics reports resolution outcomes to m
func WithMetrics(m outbound.EngineMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a new ingredient service
func NewService(
	repo outbound.IngredientRepository,
	thresholds ingredient.Thresholds,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		repo:       repo,
		similarity: ingredient.TrigramSimilarity,
		thresholds: thresholds,
		metrics:    outbound.NopMetrics{},
		tracer:     otel.Tracer("pantrymatch/ingredient"),
		logger:     logger.Named("ingredient-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ inbound.IngredientService = (*Service)(nil)

// Resolve returns the id of the catalog entry matching rawName, creating
// one when nothing scores above the match threshold.
func (s *Service) Resolve(ctx context.Context, rawName string) (int64, error) {
	ids, err := s.ResolveAll(ctx, []string{rawName})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// ResolveAll resolves every name in order. Names equal after normalization
// resolve once, and entries created for earlier names are candidates for
// later ones. A blank name fails the whole batch before anything is written.
func (s *Service) ResolveAll(ctx context.Context, rawNames []string) ([]int64, error) {
	if len(rawNames) == 0 {
		return []int64{}, nil
	}

	ctx, span := s.tracer.Start(ctx, "ingredient.ResolveAll",
		trace.WithAttributes(attribute.Int("names", len(rawNames))))
	defer span.End()

	for _, name := range rawNames {
		if err := ingredient.ValidateName(name); err != nil {
			return nil, errors.NewValidationError(err.Error()).WithCause(err)
		}
	}

	var created []ingredient.Ingredient
	resolved := make(map[string]int64, len(rawNames))
	ids := make([]int64, len(rawNames))
	for i, name := range rawNames {
		key := ingredient.Normalize(name)
		if id, ok := resolved[key]; ok {
			ids[i] = id
			s.metrics.RecordResolution(outbound.ResolutionReused)
			continue
		}

		candidates, err := s.repo.Similar(ctx, key, s.thresholds.Match)
		if err != nil {
			span.RecordError(err)
			return nil, errors.NewDatabaseError("load ingredient candidates", err)
		}
		candidates = append(candidates, created...)

		match, ok := ingredient.BestMatch(candidates, name, s.similarity, s.thresholds.Match)
		if ok {
			s.logger.Debug("Ingredient matched",
				zap.String("name", name),
				zap.Int64("ingredient_id", match.ID),
				zap.String("catalog_name", match.Name),
			)
			s.metrics.RecordResolution(outbound.ResolutionMatched)
			resolved[key] = match.ID
			ids[i] = match.ID
			continue
		}

		entry, isNew, err := s.repo.CreateOrGet(ctx, name)
		if err != nil {
			span.RecordError(err)
			return nil, errors.NewDatabaseError("create ingredient", err)
		}
		if isNew {
			s.logger.Info("Ingredient created",
				zap.String("name", entry.Name),
				zap.Int64("ingredient_id", entry.ID),
			)
		}
		s.metrics.RecordResolution(outbound.ResolutionCreated)

		created = append(created, entry)
		resolved[key] = entry.ID
		ids[i] = entry.ID
	}

	return ids, nil
}

// EnsureKnown fails with INGREDIENT_NOT_FOUND naming the first id that has
// no catalog entry.
func (s *Service) EnsureKnown(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if id <= 0 {
			return errors.NewIngredientNotFoundError(id)
		}
	}

	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return errors.NewDatabaseError("look up ingredients", err)
	}

	known := make(map[int64]struct{}, len(found))
	for _, ing := range found {
		known[ing.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return errors.NewIngredientNotFoundError(id)
		}
	}
	return nil
}

// SearchIngredients lists the catalog. A blank query pages through every
// entry by id; otherwise entries scoring above the search threshold are
// returned best first.
func (s *Service) SearchIngredients(ctx context.Context, query inbound.SearchQuery) (*inbound.IngredientList, error) {
	page, err := shared.NewPageRequest(query.Offset, query.PageSize)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	ctx, span := s.tracer.Start(ctx, "ingredient.SearchIngredients")
	defer span.End()

	var (
		items []ingredient.Ingredient
		total int64
	)

	if ingredient.Normalize(query.Query) == "" {
		items, total, err = s.repo.ListPage(ctx, page)
		if err != nil {
			return nil, errors.NewDatabaseError("list ingredients", err)
		}
	} else {
		candidates, err := s.repo.Similar(ctx, ingredient.Normalize(query.Query), s.thresholds.Search)
		if err != nil {
			return nil, errors.NewDatabaseError("load ingredient candidates", err)
		}
		scored := ingredient.Score(candidates, query.Query, s.similarity, s.thresholds.Search)
		total = int64(len(scored))
		for _, sc := range shared.Window(scored, page) {
			items = append(items, sc.Ingredient)
		}
	}

	list := &inbound.IngredientList{
		Ingredients: make([]inbound.IngredientDTO, 0, len(items)),
		PageDTO:     inbound.NewPageDTO(shared.NewPage(page, total)),
	}
	for _, ing := range items {
		list.Ingredients = append(list.Ingredients, inbound.IngredientDTO{ID: ing.ID, Name: ing.Name})
	}
	return list, nil
}
