package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pantrymatch/v1/internal/ports/inbound"
	"github.com/pantrymatch/v1/pkg/errors"
)

// pathID reads a positive integer route parameter
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		fields := errors.FieldErrors{}
		fields.Add(name, "must be an integer greater than 0")
		return 0, errors.NewFieldValidationError(fields)
	}
	return id, nil
}

// queryInt parses an optional integer query parameter. ok is false when the
// parameter is absent.
func queryInt(q url.Values, name string, fields errors.FieldErrors) (value int64, ok bool) {
	raw, present := q[name]
	if !present || len(raw) == 0 {
		return 0, false
	}
	v, err := strconv.ParseInt(raw[len(raw)-1], 10, 64)
	if err != nil {
		fields.Add(name, "must be an integer")
		return 0, false
	}
	return v, true
}

// pagination reads offset and pageSize; pageSize must be > 0 and offset >= 0
func pagination(q url.Values, fields errors.FieldErrors) inbound.PaginationParams {
	var params inbound.PaginationParams
	if offset, ok := queryInt(q, "offset", fields); ok {
		if offset < 0 {
			fields.Add("offset", "must be greater than or equal to 0")
		}
		params.Offset = int(offset)
	}
	if size, ok := queryInt(q, "pageSize", fields); ok {
		if size <= 0 {
			fields.Add("pageSize", "must be greater than 0")
		}
		params.PageSize = int(size)
	}
	return params
}

// positiveFilter reads an optional id filter that must be > 0 when present
func positiveFilter(q url.Values, name string, fields errors.FieldErrors) *int64 {
	v, ok := queryInt(q, name, fields)
	if !ok {
		return nil
	}
	if v <= 0 {
		fields.Add(name, "must be greater than 0")
		return nil
	}
	return &v
}

func fieldErr(fields errors.FieldErrors) error {
	if len(fields) == 0 {
		return nil
	}
	return errors.NewFieldValidationError(fields)
}
