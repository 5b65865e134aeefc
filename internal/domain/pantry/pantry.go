// Package pantry models ingredient memberships held by a user.
package pantry

import (
	"errors"

	"github.com/pantrymatch/v1/internal/domain/ingredient"
)

var (
	ErrItemNotFound  = errors.New("pantry item not found")
	ErrEmptyAddition = errors.New("either ingredient ids or ingredient names must contain at least one value")
)

// Item is one membership row. A user may hold the same ingredient more than
// once.
type Item struct {
	ID           int64
	UserID       int64
	IngredientID int64
	Ingredient   ingredient.Ingredient
}

// MergeIngredientIDs concatenates explicit ids with resolved ids, keeping
// order and duplicates.
func MergeIngredientIDs(explicit, resolved []int64) []int64 {
	ids := make([]int64, 0, len(explicit)+len(resolved))
	ids = append(ids, explicit...)
	return append(ids, resolved...)
}

// UniqueIDs removes duplicate and non-positive ids, keeping first-seen order.
func UniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
