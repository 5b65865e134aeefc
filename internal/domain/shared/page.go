// Package shared holds value types used by more than one aggregate.
package shared

import "errors"

// DefaultPageSize is used when a caller does not ask for a page size.
const DefaultPageSize = 20

var ErrInvalidPage = errors.New("offset must be >= 0 and page size must be > 0")

// PageRequest is an offset/limit window over an ordered listing.
type PageRequest struct {
	Offset int
	Limit  int
}

// NewPageRequest applies the default page size and validates the window.
func NewPageRequest(offset, limit int) (PageRequest, error) {
	if limit == 0 {
		limit = DefaultPageSize
	}
	if offset < 0 || limit < 0 {
		return PageRequest{}, ErrInvalidPage
	}
	return PageRequest{Offset: offset, Limit: limit}, nil
}

// Page describes the window actually returned.
type Page struct {
	Total   int64
	Offset  int
	Limit   int
	HasMore bool
}

// NewPage computes HasMore for a window over total rows. Offset+Limit is
// never summed so a huge page size cannot wrap around.
func NewPage(req PageRequest, total int64) Page {
	return Page{
		Total:   total,
		Offset:  req.Offset,
		Limit:   req.Limit,
		HasMore: int64(req.Offset) < total && int64(req.Limit) < total-int64(req.Offset),
	}
}

// Window slices an in-memory listing to the request.
func Window[T any](items []T, req PageRequest) []T {
	if req.Offset >= len(items) {
		return []T{}
	}
	if req.Limit > len(items)-req.Offset {
		return items[req.Offset:]
	}
	return items[req.Offset : req.Offset+req.Limit]
}
