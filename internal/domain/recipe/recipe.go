// Package recipe contains the recipe read model together with the pantry
// ranking and missing-ingredient rules.
package recipe

// Recipe carries the display attributes of a recipe. Optional attributes are
// nil when unset.
type Recipe struct {
	ID         int64
	Name       string
	CategoryID *int64
	CuisineID  *int64
	CookTime   *int
	PrepTime   *int
	Rating     *float64
	ImageURL   *string
}

// IngredientRef is a catalog ingredient linked to a recipe.
type IngredientRef struct {
	ID   int64
	Name string
}

// Detail is a recipe with its linked ingredients.
type Detail struct {
	Recipe
	Ingredients []IngredientRef
}

// Filter narrows the candidate set for recommendations.
type Filter struct {
	CategoryID *int64
	CuisineID  *int64
}
