package pagination

import (
	"net/http"
	"strconv"
)

// MaxPageSize caps the number of items a single request may ask for.
const MaxPageSize = 100

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Offset   int `json:"-"`
}

// DefaultParams returns sensible pagination defaults.
func DefaultParams() Params {
	return Params{
		Page:     1,
		PageSize: 20,
		Offset:   0,
	}
}

// FromRequest extracts pagination parameters from an HTTP request.
// Non-positive or non-numeric values fall back to the defaults;
// a pageSize above MaxPageSize is clamped to MaxPageSize.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if size := r.URL.Query().Get("pageSize"); size != "" {
		if v, err := strconv.Atoi(size); err == nil && v > 0 {
			if v > MaxPageSize {
				v = MaxPageSize
			}
			p.PageSize = v
		}
	}

	p.Offset = (p.Page - 1) * p.PageSize
	return p
}
