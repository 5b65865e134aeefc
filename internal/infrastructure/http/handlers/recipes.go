package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/pantrymatch/v1/internal/ports/inbound"
	"github.com/pantrymatch/v1/pkg/errors"
)

// RecipeHandlers serves recommendations and recipe details
type RecipeHandlers struct {
	recipes inbound.RecipeService
	logger  *zap.Logger
}

// NewRecipeHandlers creates a new recipe handlers instance
func NewRecipeHandlers(recipes inbound.RecipeService, logger *zap.Logger) *RecipeHandlers {
	return &RecipeHandlers{recipes: recipes, logger: logger.Named("recipe-handlers")}
}

// Recommendations handles GET /users/{user_id}/recipes/recommended-recipes
func (h *RecipeHandlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	q := r.URL.Query()
	fields := errors.FieldErrors{}
	query := inbound.RecommendationQuery{
		UserID:     userID,
		CategoryID: positiveFilter(q, "category_id", fields),
		CuisineID:  positiveFilter(q, "cuisine_id", fields),
	}
	if err := fieldErr(fields); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	recommendations, err := h.recipes.RecommendRecipes(r.Context(), query)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"recommendations": recommendations,
	})
}

// Detail handles GET /users/{user_id}/recipes/recommended-recipes/{recipe_id}
func (h *RecipeHandlers) Detail(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	recipeID, err := pathID(r, "recipe_id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	detail, err := h.recipes.GetRecipeDetail(r.Context(), userID, recipeID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, detail)
}
