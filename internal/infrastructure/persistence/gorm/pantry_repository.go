package gorm

import (
	"context"
	"errors"

	"github.com/pantrymatch/v1/internal/domain/pantry"
	"github.com/pantrymatch/v1/internal/domain/shared"
	"github.com/pantrymatch/v1/internal/ports/outbound"
	"gorm.io/gorm"
)

const insertBatchSize = 500

// PantryRepository implements outbound.PantryRepository using GORM
type PantryRepository struct {
	db *gorm.DB
}

// NewPantryRepository creates a new pantry repository
func NewPantryRepository(db *gorm.DB) outbound.PantryRepository {
	return &PantryRepository{db: db}
}

// AddItems inserts one membership per id, duplicates included
func (r *PantryRepository) AddItems(ctx context.Context, userID int64, ingredientIDs []int64) error {
	if len(ingredientIDs) == 0 {
		return nil
	}

	rows := make([]UserIngredientModel, len(ingredientIDs))
	for i, id := range ingredientIDs {
		rows[i] = UserIngredientModel{UserID: userID, IngredientID: id}
	}

	return conn(ctx, r.db).Omit("User", "Ingredient").CreateInBatches(&rows, insertBatchSize).Error
}

// FindItem loads a membership owned by userID
func (r *PantryRepository) FindItem(ctx context.Context, userID, itemID int64) (*pantry.Item, error) {
	var model UserIngredientModel
	err := conn(ctx, r.db).
		Preload("Ingredient").
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pantry.ErrItemNotFound
		}
		return nil, err
	}

	item := modelToPantryItem(&model)
	return &item, nil
}

// UpdateIngredient repoints a membership at another ingredient
func (r *PantryRepository) UpdateIngredient(ctx context.Context, itemID, ingredientID int64) error {
	result := conn(ctx, r.db).
		Model(&UserIngredientModel{}).
		Where("id = ?", itemID).
		Update("ingredient_id", ingredientID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pantry.ErrItemNotFound
	}
	return nil
}

// DeleteItems removes the user's memberships with the given ids and reports
// how many rows went away.
func (r *PantryRepository) DeleteItems(ctx context.Context, userID int64, itemIDs []int64) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}

	result := conn(ctx, r.db).
		Where("user_id = ? AND id IN ?", userID, itemIDs).
		Delete(&UserIngredientModel{})
	return result.RowsAffected, result.Error
}

// ListItems returns one page of the user's memberships ordered by id
func (r *PantryRepository) ListItems(ctx context.Context, userID int64, page shared.PageRequest) ([]pantry.Item, int64, error) {
	var total int64
	err := conn(ctx, r.db).
		Model(&UserIngredientModel{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var models []UserIngredientModel
	err = conn(ctx, r.db).
		Preload("Ingredient").
		Where("user_id = ?", userID).
		Order("id").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]pantry.Item, len(models))
	for i := range models {
		items[i] = modelToPantryItem(&models[i])
	}
	return items, total, nil
}

// IngredientIDs returns the distinct ingredient ids held by the user
func (r *PantryRepository) IngredientIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := conn(ctx, r.db).
		Model(&UserIngredientModel{}).
		Where("user_id = ?", userID).
		Distinct("ingredient_id").
		Order("ingredient_id").
		Pluck("ingredient_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
