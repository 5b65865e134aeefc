package ingredient

import "errors"

var (
	ErrBlankName = errors.New("ingredient name must not be blank")
	ErrNotFound  = errors.New("ingredient not found")
)
