package gorm

import (
	"github.com/pantrymatch/v1/internal/domain/catalog"
	"github.com/pantrymatch/v1/internal/domain/ingredient"
	"github.com/pantrymatch/v1/internal/domain/pantry"
	"github.com/pantrymatch/v1/internal/domain/recipe"
	"github.com/pantrymatch/v1/internal/domain/user"
)

func modelToIngredient(m *IngredientModel) ingredient.Ingredient {
	return ingredient.Ingredient{ID: m.ID, Name: m.Name}
}

func modelsToIngredients(models []IngredientModel) []ingredient.Ingredient {
	out := make([]ingredient.Ingredient, len(models))
	for i := range models {
		out[i] = modelToIngredient(&models[i])
	}
	return out
}

func modelToRecipe(m *RecipeModel) recipe.Recipe {
	return recipe.Recipe{
		ID:         m.ID,
		Name:       m.Name,
		CategoryID: m.CategoryID,
		CuisineID:  m.CuisineID,
		CookTime:   m.CookTime,
		PrepTime:   m.PrepTime,
		Rating:     m.Ratings,
		ImageURL:   m.ImageURL,
	}
}

func modelToDetail(m *RecipeModel) *recipe.Detail {
	detail := &recipe.Detail{
		Recipe:      modelToRecipe(m),
		Ingredients: make([]recipe.IngredientRef, 0, len(m.Ingredients)),
	}
	for _, link := range m.Ingredients {
		detail.Ingredients = append(detail.Ingredients, recipe.IngredientRef{
			ID:   link.IngredientID,
			Name: link.Ingredient.Name,
		})
	}
	return detail
}

func modelToCandidate(m *RecipeModel) recipe.Candidate {
	ids := make([]int64, 0, len(m.Ingredients))
	for _, link := range m.Ingredients {
		ids = append(ids, link.IngredientID)
	}
	return recipe.Candidate{Recipe: modelToRecipe(m), IngredientIDs: ids}
}

func modelToPantryItem(m *UserIngredientModel) pantry.Item {
	return pantry.Item{
		ID:           m.ID,
		UserID:       m.UserID,
		IngredientID: m.IngredientID,
		Ingredient:   modelToIngredient(&m.Ingredient),
	}
}

func modelToUser(m *UserModel) *user.User {
	return &user.User{ID: m.ID, Email: m.Email}
}

func modelToCategory(m *CategoryModel) catalog.Category {
	return catalog.Category{ID: m.ID, Name: m.Name}
}

func modelToCuisine(m *CuisineModel) catalog.Cuisine {
	return catalog.Cuisine{ID: m.ID, Name: m.Name}
}
