package gorm

import (
	"context"
	"fmt"

	"github.com/pantrymatch/v1/internal/domain/ingredient"
	"github.com/pantrymatch/v1/internal/domain/shared"
	"github.com/pantrymatch/v1/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

// IngredientRepository implements outbound.IngredientRepository using GORM
type IngredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository creates a new ingredient repository
func NewIngredientRepository(db *gorm.DB) outbound.IngredientRepository {
	return &IngredientRepository{db: db}
}

// trgmDefaultLimit is pg_trgm's default similarity_threshold, the cut-off
// applied by the % operator.
const trgmDefaultLimit = 0.3

// Similar returns the match candidates for name ordered by id. On PostgreSQL
// the % operator narrows the catalog through the gin_trgm_ops index whenever
// threshold is at or above pg_trgm's own limit; callers still score the rows
// themselves. Other dialects return the whole catalog.
func (r *IngredientRepository) Similar(ctx context.Context, name string, threshold float64) ([]ingredient.Ingredient, error) {
	query := conn(ctx, r.db).Order("id")
	if r.trigramIndexed() && threshold >= trgmDefaultLimit {
		query = query.Where("name % ?", name)
	}

	var models []IngredientModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return modelsToIngredients(models), nil
}

func (r *IngredientRepository) trigramIndexed() bool {
	return r.db.Dialector.Name() == "postgres"
}

// ListPage returns one page of the catalog ordered by id with the total count
func (r *IngredientRepository) ListPage(ctx context.Context, page shared.PageRequest) ([]ingredient.Ingredient, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&IngredientModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []IngredientModel
	err := conn(ctx, r.db).
		Order("id").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	return modelsToIngredients(models), total, nil
}

// FindByIDs returns the catalog entries with the given ids, ordered by id
func (r *IngredientRepository) FindByIDs(ctx context.Context, ids []int64) ([]ingredient.Ingredient, error) {
	if len(ids) == 0 {
		return []ingredient.Ingredient{}, nil
	}

	var models []IngredientModel
	if err := conn(ctx, r.db).Where("id IN ?", ids).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return modelsToIngredients(models), nil
}

// CreateOrGet inserts name, relying on the unique index to absorb a
// concurrent insert of the same name.
func (r *IngredientRepository) CreateOrGet(ctx context.Context, name string) (ingredient.Ingredient, bool, error) {
	model := IngredientModel{Name: name}
	result := conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&model)
	if result.Error != nil {
		return ingredient.Ingredient{}, false, result.Error
	}
	if result.RowsAffected > 0 {
		return modelToIngredient(&model), true, nil
	}

	var existing IngredientModel
	err := conn(ctx, r.db).
		Clauses(dbresolver.Write).
		Where("name = ?", name).
		First(&existing).Error
	if err != nil {
		return ingredient.Ingredient{}, false, fmt.Errorf("reading ingredient %q after conflict: %w", name, err)
	}
	return modelToIngredient(&existing), false, nil
}
