// Package catalog holds the reference data recipes are filed under.
package catalog

type Category struct {
	ID   int64
	Name string
}

type Cuisine struct {
	ID   int64
	Name string
}
