package request

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultPageSize is used when page_size is absent, non-numeric or not positive.
const DefaultPageSize = 10

// Pagination is a validated page request for list endpoints.
type Pagination struct {
	Page     int
	PageSize int
}

// Offset returns the number of rows to skip.
// It is only meaningful for values returned by ParsePagination.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PastEnd reports whether the page starts at or after row count.
func (p Pagination) PastEnd(count int) bool {
	if count <= 0 || p.Page < 1 || p.PageSize < 1 {
		return true
	}
	return p.Page-1 > (count-1)/p.PageSize
}

// ParsePagination extracts page and page_size from query parameters.
//
// page_size silently falls back to DefaultPageSize when it is not a positive
// integer. page defaults to 1; "last" is not supported and any value that is not
// a positive integer is rejected.
func ParsePagination(pageParam, pageSizeParam string) (Pagination, error) {
	p := Pagination{Page: 1, PageSize: DefaultPageSize}

	if size, err := strconv.Atoi(strings.TrimSpace(pageSizeParam)); err == nil && size > 0 {
		p.PageSize = size
	}

	if pageParam = strings.TrimSpace(pageParam); pageParam != "" {
		page, err := strconv.Atoi(pageParam)
		if err != nil || page < 1 {
			return Pagination{}, fmt.Errorf("invalid page: %s", pageParam)
		}
		// no table holds more than MaxInt rows, so such a page is always empty
		if page-1 > math.MaxInt/p.PageSize {
			return Pagination{}, fmt.Errorf("page %d out of range for page size %d", page, p.PageSize)
		}
		p.Page = page
	}

	return p, nil
}
