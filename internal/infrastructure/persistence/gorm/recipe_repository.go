package gorm

import (
	"context"
	"errors"

	"github.com/pantrymatch/v1/internal/domain/recipe"
	"github.com/pantrymatch/v1/internal/ports/outbound"
	"gorm.io/gorm"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// FindCandidates loads recipes sharing at least one ingredient with
// ingredientIDs together with all of their ingredient links.
func (r *RecipeRepository) FindCandidates(ctx context.Context, filter recipe.Filter, ingredientIDs []int64) ([]recipe.Candidate, error) {
	if len(ingredientIDs) == 0 {
		return []recipe.Candidate{}, nil
	}

	query := conn(ctx, r.db).
		Model(&RecipeModel{}).
		Where("EXISTS (SELECT 1 FROM recipe_ingredients ri WHERE ri.recipe_id = recipes.id AND ri.ingredient_id IN ?)", ingredientIDs)

	if filter.CategoryID != nil {
		query = query.Where("recipes.category_id = ?", *filter.CategoryID)
	}
	if filter.CuisineID != nil {
		query = query.Where("recipes.cuisine_id = ?", *filter.CuisineID)
	}

	var models []RecipeModel
	err := query.
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "recipe_id", "ingredient_id")
		}).
		Order("recipes.id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	candidates := make([]recipe.Candidate, len(models))
	for i := range models {
		candidates[i] = modelToCandidate(&models[i])
	}
	return candidates, nil
}

// FindDetail loads a recipe with its ingredients in link order
func (r *RecipeRepository) FindDetail(ctx context.Context, id int64) (*recipe.Detail, error) {
	var model RecipeModel

	err := conn(ctx, r.db).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id")
		}).
		Preload("Ingredients.Ingredient").
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrRecipeNotFound
		}
		return nil, err
	}

	return modelToDetail(&model), nil
}
