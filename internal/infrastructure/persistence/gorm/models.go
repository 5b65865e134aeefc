// Package gorm provides the GORM models and repository implementations.
package gorm

import "time"

// IngredientModel is a canonical catalog entry
type IngredientModel struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(255);uniqueIndex:index_ingredients_on_name;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (IngredientModel) TableName() string { return "ingredients" }

type CategoryModel struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(255);uniqueIndex:index_categories_on_name;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CategoryModel) TableName() string { return "categories" }

type CuisineModel struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(255);uniqueIndex:index_cuisines_on_name;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CuisineModel) TableName() string { return "cuisines" }

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID         int64    `gorm:"primaryKey"`
	Name       string   `gorm:"type:varchar(255);not null"`
	CategoryID *int64   `gorm:"index:index_recipes_on_category_id;index:index_recipes_on_cuisine_id_and_category_id,priority:2"`
	CuisineID  *int64   `gorm:"index:index_recipes_on_cuisine_id;index:index_recipes_on_cuisine_id_and_category_id,priority:1"`
	CookTime   *int     `gorm:"type:integer"`
	PrepTime   *int     `gorm:"type:integer"`
	Ratings    *float64 `gorm:"type:decimal(3,2)"`
	ImageURL   *string  `gorm:"type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Category    *CategoryModel          `gorm:"foreignKey:CategoryID"`
	Cuisine     *CuisineModel           `gorm:"foreignKey:CuisineID"`
	Ingredients []RecipeIngredientModel `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (RecipeModel) TableName() string { return "recipes" }

// RecipeIngredientModel links a recipe to a required ingredient
type RecipeIngredientModel struct {
	ID           int64 `gorm:"primaryKey"`
	RecipeID     int64 `gorm:"not null;index:index_recipe_ingredients_on_recipe_id_and_ingredient_id,priority:1"`
	IngredientID int64 `gorm:"not null;index:index_recipe_ingredients_on_ingredient_id;index:index_recipe_ingredients_on_recipe_id_and_ingredient_id,priority:2"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Ingredient IngredientModel `gorm:"foreignKey:IngredientID"`
}

func (RecipeIngredientModel) TableName() string { return "recipe_ingredients" }

type UserModel struct {
	ID        int64  `gorm:"primaryKey"`
	Email     string `gorm:"type:varchar(255);uniqueIndex:index_users_on_email;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string { return "users" }

// UserIngredientModel is a pantry membership. The (user, ingredient) pair is
// indexed but not unique.
type UserIngredientModel struct {
	ID           int64 `gorm:"primaryKey"`
	UserID       int64 `gorm:"not null;index:index_user_ingredients_on_user_id_and_ingredient_id,priority:1"`
	IngredientID int64 `gorm:"not null;index:index_user_ingredients_on_ingredient_id;index:index_user_ingredients_on_user_id_and_ingredient_id,priority:2"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	User       UserModel       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Ingredient IngredientModel `gorm:"foreignKey:IngredientID"`
}

func (UserIngredientModel) TableName() string { return "user_ingredients" }

// AllModels lists every model in dependency order for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&IngredientModel{},
		&CategoryModel{},
		&CuisineModel{},
		&RecipeModel{},
		&RecipeIngredientModel{},
		&UserModel{},
		&UserIngredientModel{},
	}
}
