package pagination

import (
	"net/url"
	"strconv"
)

// PageRequest identifies one page of a query result. Page is 1-indexed.
type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Normalize clamps the request to valid values: page below 1 becomes 1,
// page size below 1 becomes the configured default, and page size above
// the configured maximum is capped.
func (r *PageRequest) Normalize(cfg Config) {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	if r.PageSize > cfg.MaxPageSize {
		r.PageSize = cfg.MaxPageSize
	}
}

// Offset returns the number of records preceding this page.
func (r *PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// FromQuery parses and normalizes page and page_size query parameters.
func FromQuery(values url.Values, cfg Config) PageRequest {
	page, _ := strconv.Atoi(values.Get("page"))
	pageSize, _ := strconv.Atoi(values.Get("page_size"))

	req := PageRequest{Page: page, PageSize: pageSize}
	req.Normalize(cfg)
	return req
}

// PageResult holds one page of data with pagination metadata.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult builds a PageResult, computing total pages and replacing a
// nil data slice with an empty one so JSON renders [] rather than null.
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}

	if data == nil {
		data = []T{}
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
	}
}
