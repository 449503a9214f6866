package models

import (
	"fmt"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is a 1-indexed page position. Build it with NewPageRequest.
type PageRequest struct {
	Page     int
	PageSize int
}

// NewPageRequest coerces raw values into a usable page: non-positive values fall back to the
// defaults and the size is clamped to MaxPageSize.
func NewPageRequest(page, pageSize int) PageRequest {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return PageRequest{Page: page, PageSize: pageSize}
}

// Offset is the number of items before this page.
func (p PageRequest) Offset() int64 {
	return int64(p.Page-1) * int64(p.PageSize)
}

// Page is the listing envelope returned by every feed.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int64 `json:"totalPages"`
}

// NewPage wraps items with pagination metadata. Items is never nil.
func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	var pages int64
	if total > 0 {
		pages = (total + int64(req.PageSize) - 1) / int64(req.PageSize)
	}
	return Page[T]{
		Items:      items,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalItems: total,
		TotalPages: pages,
	}
}

// SortSpec orders a feed by one stored field; ties are broken by _id in the same direction.
type SortSpec struct {
	Field string
	Desc  bool
}

// VideoSortFields maps the public sort names to stored field names.
var VideoSortFields = map[string]string{
	"createdAt": "created_at",
	"views":     "views",
	"title":     "title",
	"duration":  "duration",
}

// DefaultSort is newest first.
var DefaultSort = SortSpec{Field: "created_at", Desc: true}

// ParseSort resolves sortBy/sortType against an allowlist of public field names.
func ParseSort(sortBy, sortType string, allowed map[string]string) (SortSpec, error) {
	spec := DefaultSort
	if sortBy != "" {
		field, ok := allowed[sortBy]
		if !ok {
			return SortSpec{}, fmt.Errorf("unsupported sortBy %q", sortBy)
		}
		spec.Field = field
	}
	switch strings.ToLower(sortType) {
	case "", "desc":
		spec.Desc = true
	case "asc":
		spec.Desc = false
	default:
		return SortSpec{}, fmt.Errorf("unsupported sortType %q", sortType)
	}
	return spec, nil
}
