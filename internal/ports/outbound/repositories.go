// Package outbound defines the interfaces the application uses to reach
// storage and caches.
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/pantrymatch/v1/internal/domain/catalog"
	"github.com/pantrymatch/v1/internal/domain/ingredient"
	"github.com/pantrymatch/v1/internal/domain/pantry"
	"github.com/pantrymatch/v1/internal/domain/recipe"
	"github.com/pantrymatch/v1/internal/domain/shared"
	"github.com/pantrymatch/v1/internal/domain/user"
)

// IngredientRepository is the canonical ingredient catalog.
type IngredientRepository interface {
	// Similar returns, ordered by id, a superset of the entries whose trigram
	// similarity to name exceeds threshold. Stores without a trigram index
	// may return the whole catalog.
	Similar(ctx context.Context, name string, threshold float64) ([]ingredient.Ingredient, error)
	ListPage(ctx context.Context, page shared.PageRequest) ([]ingredient.Ingredient, int64, error)
	FindByIDs(ctx context.Context, ids []int64) ([]ingredient.Ingredient, error)
	// CreateOrGet inserts name unless an entry with exactly that name exists,
	// in which case the existing entry is returned with created == false.
	CreateOrGet(ctx context.Context, name string) (ing ingredient.Ingredient, created bool, err error)
}

// RecipeRepository reads recipes and their ingredient links.
type RecipeRepository interface {
	// FindCandidates returns recipes matching filter that link at least one
	// of ingredientIDs, each with all of its linked ingredient ids.
	FindCandidates(ctx context.Context, filter recipe.Filter, ingredientIDs []int64) ([]recipe.Candidate, error)
	FindDetail(ctx context.Context, id int64) (*recipe.Detail, error)
}

// PantryRepository stores pantry memberships.
type PantryRepository interface {
	AddItems(ctx context.Context, userID int64, ingredientIDs []int64) error
	FindItem(ctx context.Context, userID, itemID int64) (*pantry.Item, error)
	UpdateIngredient(ctx context.Context, itemID, ingredientID int64) error
	DeleteItems(ctx context.Context, userID int64, itemIDs []int64) (int64, error)
	ListItems(ctx context.Context, userID int64, page shared.PageRequest) ([]pantry.Item, int64, error)
	// IngredientIDs returns the distinct ingredient ids the user holds.
	IngredientIDs(ctx context.Context, userID int64) ([]int64, error)
}

// UserRepository stores pantry owners.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id int64) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// CatalogRepository reads categories and cuisines.
type CatalogRepository interface {
	ListCategories(ctx context.Context, query string, page shared.PageRequest) ([]catalog.Category, int64, error)
	ListCuisines(ctx context.Context) ([]catalog.Cuisine, error)
}

// Transactor runs fn inside one storage transaction. Repositories called
// with the ctx passed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ErrCacheMiss is returned by CacheRepository.Get for absent or expired keys.
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
