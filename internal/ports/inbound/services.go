// Package inbound defines the use cases the application exposes to HTTP
// handlers and other driving adapters.
package inbound

import (
	"context"

	"github.com/pantrymatch/v1/internal/domain/shared"
)

// IngredientService resolves free-text names to catalog entries and searches
// the catalog.
type IngredientService interface {
	Resolve(ctx context.Context, rawName string) (int64, error)
	// ResolveAll resolves each name, preserving input order and duplicates.
	ResolveAll(ctx context.Context, rawNames []string) ([]int64, error)
	SearchIngredients(ctx context.Context, query SearchQuery) (*IngredientList, error)
}

// PantryService manages a user's ingredient memberships.
type PantryService interface {
	AddPantryIngredients(ctx context.Context, cmd AddPantryIngredientsCommand) error
	ReplacePantryIngredient(ctx context.Context, cmd ReplacePantryIngredientCommand) error
	RemovePantryIngredients(ctx context.Context, cmd RemovePantryIngredientsCommand) error
	ListPantryIngredients(ctx context.Context, userID int64, params PaginationParams) (*PantryList, error)
}

// RecipeService ranks recipes against a pantry and explains what is missing.
type RecipeService interface {
	RecommendRecipes(ctx context.Context, query RecommendationQuery) ([]RecipeSummaryDTO, error)
	GetRecipeDetail(ctx context.Context, userID, recipeID int64) (*RecipeDetailDTO, error)
}

// UserChecker guards user-scoped use cases.
type UserChecker interface {
	// EnsureExists returns a USER_NOT_FOUND error for unknown ids.
	EnsureExists(ctx context.Context, userID int64) error
}

// UserService registers pantry owners.
type UserService interface {
	UserChecker
	CreateUser(ctx context.Context, cmd CreateUserCommand) (*UserDTO, error)
	GetUserByEmail(ctx context.Context, email string) (*UserDTO, error)
}

// CatalogService lists reference data.
type CatalogService interface {
	ListCategories(ctx context.Context, query SearchQuery) (*CategoryList, error)
	ListCuisines(ctx context.Context) ([]CuisineDTO, error)
}

type AddPantryIngredientsCommand struct {
	UserID          int64
	IngredientIDs   []int64
	IngredientNames []string
}

// ReplacePantryIngredientCommand points a membership at another ingredient.
// IngredientName is resolved when IngredientID is nil.
type ReplacePantryIngredientCommand struct {
	UserID         int64
	MembershipID   int64
	IngredientID   *int64
	IngredientName string
}

type RemovePantryIngredientsCommand struct {
	UserID        int64
	MembershipIDs []int64
}

type RecommendationQuery struct {
	UserID     int64
	CategoryID *int64
	CuisineID  *int64
}

type CreateUserCommand struct {
	Email           string
	IngredientIDs   []int64
	IngredientNames []string
}

type PaginationParams struct {
	Offset   int
	PageSize int
}

type SearchQuery struct {
	Query string
	PaginationParams
}

type PageDTO struct {
	Total   int64 `json:"total"`
	Offset  int   `json:"offset"`
	Limit   int   `json:"limit"`
	HasMore bool  `json:"has_more"`
}

// NewPageDTO renders a page window
func NewPageDTO(p shared.Page) PageDTO {
	return PageDTO{Total: p.Total, Offset: p.Offset, Limit: p.Limit, HasMore: p.HasMore}
}

type IngredientDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type IngredientList struct {
	Ingredients []IngredientDTO `json:"ingredients"`
	PageDTO
}

type PantryItemDTO struct {
	ID           int64         `json:"id"`
	IngredientID int64         `json:"ingredient_id"`
	Ingredient   IngredientDTO `json:"ingredient"`
}

type PantryList struct {
	Ingredients []PantryItemDTO `json:"ingredients"`
	PageDTO
}

// RecipeSummaryDTO is one ranked recommendation.
type RecipeSummaryDTO struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	ImageURL   *string  `json:"image_url"`
	CategoryID *int64   `json:"category_id"`
	CuisineID  *int64   `json:"cuisine_id"`
	CookTime   *int     `json:"cook_time"`
	PrepTime   *int     `json:"prep_time"`
	Ratings    *float64 `json:"ratings"`
}

type RecipeDetailDTO struct {
	RecipeSummaryDTO
	Ingredients        []string `json:"ingredients"`
	MissingIngredients []string `json:"missing_ingredients"`
}

type UserDTO struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type CategoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CategoryList struct {
	Categories []CategoryDTO `json:"categories"`
	PageDTO
}

type CuisineDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
