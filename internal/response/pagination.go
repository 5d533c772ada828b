package response

import (
	"fmt"
	"net/http"
	"strconv"

	"certidigital/internal/services"
)

// Pagination query parameter names and bounds.
const (
	pageParam       = "page"
	sizeParam       = "page_size"
	searchParam     = "search"
	defaultPageSize = 20
	maxPageSize     = 100
)

// ParseListRequest extracts the common pagination/search inputs from the
// query string.
func ParseListRequest(r *http.Request) (*services.ListRequest, error) {
	req := &services.ListRequest{
		Page:     1,
		PageSize: defaultPageSize,
		Search:   r.URL.Query().Get(searchParam),
	}

	if pageStr := r.URL.Query().Get(pageParam); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return nil, fmt.Errorf("invalid page parameter: %s", pageStr)
		}
		req.Page = page
	}

	if sizeStr := r.URL.Query().Get(sizeParam); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size < 1 {
			return nil, fmt.Errorf("invalid page_size parameter: %s", sizeStr)
		}
		if size > maxPageSize {
			return nil, fmt.Errorf("page_size cannot exceed %d", maxPageSize)
		}
		req.PageSize = size
	}

	return req, nil
}
