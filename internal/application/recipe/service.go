// Package recipe provides the application layer for recipe recommendations
package recipe

import (
	"context"
	stderrors "errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pantrymatch/v1/internal/domain/recipe"
	"github.com/pantrymatch/v1/internal/ports/inbound"
	"github.com/pantrymatch/v1/internal/ports/outbound"
	"github.com/pantrymatch/v1/pkg/errors"
)

// RecipeService ranks recipes against a user's pantry
type RecipeService struct {
	recipeRepo outbound.RecipeRepository
	pantryRepo outbound.PantryRepository
	users      inbound.UserChecker
	limit      int
	metrics    outbound.EngineMetrics
	tracer     trace.Tracer
	logger     *zap.Logger
}

// NewRecipeService creates a new recipe service. A non-positive limit falls
// back to recipe.DefaultLimit.
func NewRecipeService(
	recipeRepo outbound.RecipeRepository,
	pantryRepo outbound.PantryRepository,
	users inbound.UserChecker,
	limit int,
	metrics outbound.EngineMetrics,
	logger *zap.Logger,
) *RecipeService {
	if limit <= 0 {
		limit = recipe.DefaultLimit
	}
	if metrics == nil {
		metrics = outbound.NopMetrics{}
	}
	return &RecipeService{
		recipeRepo: recipeRepo,
		pantryRepo: pantryRepo,
		users:      users,
		limit:      limit,
		metrics:    metrics,
		tracer:     otel.Tracer("pantrymatch/recipe"),
		logger:     logger.Named("recipe-service"),
	}
}

var _ inbound.RecipeService = (*RecipeService)(nil)

// RecommendRecipes returns recipes sharing at least one ingredient with the
// user's pantry, best coverage first.
func (s *RecipeService) RecommendRecipes(ctx context.Context, query inbound.RecommendationQuery) ([]inbound.RecipeSummaryDTO, error) {
	ctx, span := s.tracer.Start(ctx, "recipe.RecommendRecipes",
		trace.WithAttributes(attribute.Int64("user_id", query.UserID)))
	defer span.End()

	if err := s.users.EnsureExists(ctx, query.UserID); err != nil {
		return nil, err
	}

	held, err := s.pantryRepo.IngredientIDs(ctx, query.UserID)
	if err != nil {
		return nil, errors.NewDatabaseError("load pantry", err)
	}
	if len(held) == 0 {
		s.metrics.RecordRecommendations(0)
		return []inbound.RecipeSummaryDTO{}, nil
	}

	filter := recipe.Filter{CategoryID: query.CategoryID, CuisineID: query.CuisineID}
	candidates, err := s.recipeRepo.FindCandidates(ctx, filter, held)
	if err != nil {
		span.RecordError(err)
		return nil, errors.NewDatabaseError("load candidate recipes", err)
	}

	ranked, err := recipe.Rank(candidates, recipe.NewPantry(held), s.limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to rank recipes")
	}

	summaries := make([]inbound.RecipeSummaryDTO, 0, len(ranked))
	for _, r := range ranked {
		summaries = append(summaries, toSummary(r.Recipe))
	}

	span.SetAttributes(
		attribute.Int("candidates", len(candidates)),
		attribute.Int("results", len(summaries)),
	)
	s.metrics.RecordRecommendations(len(summaries))
	s.logger.Debug("Recipes recommended",
		zap.Int64("user_id", query.UserID),
		zap.Int("pantry_size", len(held)),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(summaries)),
	)

	return summaries, nil
}

// GetRecipeDetail returns a recipe with its required ingredient names and
// the ones missing from the user's pantry.
func (s *RecipeService) GetRecipeDetail(ctx context.Context, userID, recipeID int64) (*inbound.RecipeDetailDTO, error) {
	ctx, span := s.tracer.Start(ctx, "recipe.GetRecipeDetail",
		trace.WithAttributes(
			attribute.Int64("user_id", userID),
			attribute.Int64("recipe_id", recipeID),
		))
	defer span.End()

	if err := s.users.EnsureExists(ctx, userID); err != nil {
		return nil, err
	}

	detail, err := s.recipeRepo.FindDetail(ctx, recipeID)
	if err != nil {
		if stderrors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, errors.NewRecipeNotFoundError(recipeID).WithCause(err)
		}
		return nil, errors.NewDatabaseError("load recipe", err)
	}

	held, err := s.pantryRepo.IngredientIDs(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("load pantry", err)
	}

	return &inbound.RecipeDetailDTO{
		RecipeSummaryDTO:   toSummary(detail.Recipe),
		Ingredients:        recipe.RequiredIngredients(detail.Ingredients),
		MissingIngredients: recipe.MissingIngredients(detail.Ingredients, recipe.NewPantry(held)),
	}, nil
}

func toSummary(r recipe.Recipe) inbound.RecipeSummaryDTO {
	return inbound.RecipeSummaryDTO{
		ID:         r.ID,
		Name:       r.Name,
		ImageURL:   recipe.NormalizeImageURLPtr(r.ImageURL),
		CategoryID: r.CategoryID,
		CuisineID:  r.CuisineID,
		CookTime:   r.CookTime,
		PrepTime:   r.PrepTime,
		Ratings:    r.Rating,
	}
}
