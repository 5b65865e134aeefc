package recipe

import "errors"

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrInvalidLimit   = errors.New("recommendation limit must be greater than 0")
)
