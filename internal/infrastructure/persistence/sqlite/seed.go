package sqlite

import (
	"fmt"

	gormModels "github.com/pantrymatch/v1/internal/infrastructure/persistence/gorm"
	"gorm.io/gorm"
)

type seedRecipe struct {
	name        string
	category    string
	cuisine     string
	cookTime    int
	prepTime    int
	ratings     float64
	imageURL    string
	ingredients []string
}

var (
	seedCategories = []string{"Breakfast", "Dessert", "Main Course", "Salad", "Soup"}
	seedCuisines   = []string{"American", "French", "Indian", "Italian", "Mexican"}
	seedRecipes    = []seedRecipe{
		{
			name: "Tomato Basil Pasta", category: "Main Course", cuisine: "Italian",
			cookTime: 20, prepTime: 10, ratings: 4.6,
			imageURL:    "https://imagesvc.example/convert?url=https%3A%2F%2Fimages.example%2Ftomato-basil-pasta.jpg",
			ingredients: []string{"pasta", "tomato", "basil", "olive oil", "garlic", "salt"},
		},
		{
			name: "French Omelette", category: "Breakfast", cuisine: "French",
			cookTime: 5, prepTime: 5, ratings: 4.3,
			imageURL:    "https://images.example/omelette.jpg",
			ingredients: []string{"egg", "butter", "salt", "pepper"},
		},
		{
			name: "Guacamole", category: "Salad", cuisine: "Mexican",
			prepTime: 15, ratings: 4.8,
			ingredients: []string{"avocado", "lime", "onion", "salt", "cilantro"},
		},
		{
			name: "Chocolate Mug Cake", category: "Dessert", cuisine: "American",
			cookTime: 2, prepTime: 5, ratings: 3.9,
			ingredients: []string{"flour", "sugar", "cocoa powder", "egg", "butter", "milk"},
		},
		{
			name: "Dal Tadka", category: "Main Course", cuisine: "Indian",
			cookTime: 30, prepTime: 10, ratings: 4.7,
			ingredients: []string{"lentils", "onion", "tomato", "garlic", "ginger", "cumin", "salt"},
		},
		{
			name: "Tomato Soup", category: "Soup", cuisine: "American",
			cookTime: 25, prepTime: 10, ratings: 4.1,
			ingredients: []string{"tomato", "onion", "butter", "salt", "pepper"},
		},
	}
)

// SeedDatabase populates an empty database with a small demo catalog
func SeedDatabase(db *gorm.DB) error {
	var recipeCount int64
	if err := db.Model(&gormModels.RecipeModel{}).Count(&recipeCount).Error; err != nil {
		return fmt.Errorf("failed to count recipes: %w", err)
	}
	if recipeCount > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		categories := make(map[string]int64, len(seedCategories))
		for _, name := range seedCategories {
			m := gormModels.CategoryModel{Name: name}
			if err := tx.Create(&m).Error; err != nil {
				return fmt.Errorf("failed to seed category %s: %w", name, err)
			}
			categories[name] = m.ID
		}

		cuisines := make(map[string]int64, len(seedCuisines))
		for _, name := range seedCuisines {
			m := gormModels.CuisineModel{Name: name}
			if err := tx.Create(&m).Error; err != nil {
				return fmt.Errorf("failed to seed cuisine %s: %w", name, err)
			}
			cuisines[name] = m.ID
		}

		ingredients := make(map[string]int64)
		for _, sr := range seedRecipes {
			recipe := gormModels.RecipeModel{
				Name:       sr.name,
				CategoryID: ptr(categories[sr.category]),
				CuisineID:  ptr(cuisines[sr.cuisine]),
				PrepTime:   ptr(sr.prepTime),
				Ratings:    ptr(sr.ratings),
			}
			if sr.cookTime > 0 {
				recipe.CookTime = ptr(sr.cookTime)
			}
			if sr.imageURL != "" {
				recipe.ImageURL = ptr(sr.imageURL)
			}
			if err := tx.Omit("Category", "Cuisine", "Ingredients").Create(&recipe).Error; err != nil {
				return fmt.Errorf("failed to seed recipe %s: %w", sr.name, err)
			}

			for _, name := range sr.ingredients {
				id, ok := ingredients[name]
				if !ok {
					m := gormModels.IngredientModel{Name: name}
					if err := tx.Create(&m).Error; err != nil {
						return fmt.Errorf("failed to seed ingredient %s: %w", name, err)
					}
					id = m.ID
					ingredients[name] = id
				}
				link := gormModels.RecipeIngredientModel{RecipeID: recipe.ID, IngredientID: id}
				if err := tx.Omit("Ingredient").Create(&link).Error; err != nil {
					return fmt.Errorf("failed to link %s to %s: %w", name, sr.name, err)
				}
			}
		}

		return nil
	})
}

func ptr[T any](v T) *T {
	return &v
}
