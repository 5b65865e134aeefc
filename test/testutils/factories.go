package testutils

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	repo "github.com/pantrymatch/v1/internal/infrastructure/persistence/gorm"
)

// Fixtures inserts catalog, recipe and pantry rows directly through gorm
type Fixtures struct {
	t     testing.TB
	db    *gorm.DB
	faker *gofakeit.Faker
}

// NewFixtures creates a fixture builder with a seeded faker
func NewFixtures(t testing.TB, db *gorm.DB, seed int64) *Fixtures {
	return &Fixtures{t: t, db: db, faker: gofakeit.New(seed)}
}

// Ingredient inserts a catalog entry and returns its id
func (f *Fixtures) Ingredient(name string) int64 {
	f.t.Helper()
	m := repo.IngredientModel{Name: name}
	require.NoError(f.t, f.db.Create(&m).Error)
	return m.ID
}

// Ingredients inserts each name and returns the ids keyed by name
func (f *Fixtures) Ingredients(names ...string) map[string]int64 {
	f.t.Helper()
	ids := make(map[string]int64, len(names))
	for _, name := range names {
		ids[name] = f.Ingredient(name)
	}
	return ids
}

// Category inserts a category
func (f *Fixtures) Category(name string) int64 {
	f.t.Helper()
	m := repo.CategoryModel{Name: name}
	require.NoError(f.t, f.db.Create(&m).Error)
	return m.ID
}

// Cuisine inserts a cuisine
func (f *Fixtures) Cuisine(name string) int64 {
	f.t.Helper()
	m := repo.CuisineModel{Name: name}
	require.NoError(f.t, f.db.Create(&m).Error)
	return m.ID
}

// User inserts a user with a fake email
func (f *Fixtures) User() int64 {
	f.t.Helper()
	m := repo.UserModel{Email: f.faker.Email()}
	require.NoError(f.t, f.db.Create(&m).Error)
	return m.ID
}

// Hold adds one pantry membership per ingredient id
func (f *Fixtures) Hold(userID int64, ingredientIDs ...int64) {
	f.t.Helper()
	for _, id := range ingredientIDs {
		m := repo.UserIngredientModel{UserID: userID, IngredientID: id}
		require.NoError(f.t, f.db.Omit("User", "Ingredient").Create(&m).Error)
	}
}

// RecipeBuilder provides a fluent interface for inserting test recipes
type RecipeBuilder struct {
	f           *Fixtures
	model       repo.RecipeModel
	ingredients []int64
}

// Recipe starts a recipe with a fake name
func (f *Fixtures) Recipe() *RecipeBuilder {
	return &RecipeBuilder{
		f:     f,
		model: repo.RecipeModel{Name: f.faker.Dessert()},
	}
}

// Named sets the recipe name
func (rb *RecipeBuilder) Named(name string) *RecipeBuilder {
	rb.model.Name = name
	return rb
}

// WithIngredients links the recipe to the given ingredient ids
func (rb *RecipeBuilder) WithIngredients(ids ...int64) *RecipeBuilder {
	rb.ingredients = append(rb.ingredients, ids...)
	return rb
}

// InCategory sets the category
func (rb *RecipeBuilder) InCategory(id int64) *RecipeBuilder {
	rb.model.CategoryID = &id
	return rb
}

// InCuisine sets the cuisine
func (rb *RecipeBuilder) InCuisine(id int64) *RecipeBuilder {
	rb.model.CuisineID = &id
	return rb
}

// WithImage sets the image URL
func (rb *RecipeBuilder) WithImage(url string) *RecipeBuilder {
	rb.model.ImageURL = &url
	return rb
}

// WithTimes sets cook and prep minutes
func (rb *RecipeBuilder) WithTimes(cook, prep int) *RecipeBuilder {
	rb.model.CookTime = &cook
	rb.model.PrepTime = &prep
	return rb
}

// WithRating sets the rating
func (rb *RecipeBuilder) WithRating(r float64) *RecipeBuilder {
	rb.model.Ratings = &r
	return rb
}

// Create inserts the recipe and its links and returns its id
func (rb *RecipeBuilder) Create() int64 {
	t := rb.f.t
	t.Helper()

	m := rb.model
	require.NoError(t, rb.f.db.Omit("Category", "Cuisine", "Ingredients").Create(&m).Error)
	for _, id := range rb.ingredients {
		link := repo.RecipeIngredientModel{RecipeID: m.ID, IngredientID: id}
		require.NoError(t, rb.f.db.Omit("Ingredient").Create(&link).Error)
	}
	return m.ID
}
