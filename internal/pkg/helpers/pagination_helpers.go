package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unirecords/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is a 1-based page of a list.
type PageRequest struct {
	Page int
	Size int
}

// ParsePageRequest reads ?page and ?size from the query string. ok is false
// when neither is present, in which case lists are returned whole.
// Malformed or out of range values fall back to the defaults.
func ParsePageRequest(c *gin.Context) (req PageRequest, ok bool) {
	pageStr, hasPage := c.GetQuery("page")
	sizeStr, hasSize := c.GetQuery("size")

	req = PageRequest{Page: 1, Size: DefaultPageSize}
	if page, err := strconv.Atoi(pageStr); err == nil && page >= 1 {
		req.Page = page
	}
	if size, err := strconv.Atoi(sizeStr); err == nil && size >= 1 && size <= MaxPageSize {
		req.Size = size
	}
	return req, hasPage || hasSize
}

func (r PageRequest) normalized() PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Size < 1 {
		r.Size = DefaultPageSize
	}
	return r
}

// Info describes the page r selects out of total items. An empty list has
// one (empty) page and the current page never runs past the last one.
func (r PageRequest) Info(total int) dto.PaginationInfo {
	r = r.normalized()

	pages := (total + r.Size - 1) / r.Size
	if pages == 0 {
		pages = 1
	}
	return dto.PaginationInfo{
		CurrentPage: min(r.Page, pages),
		TotalPages:  pages,
		PageSize:    r.Size,
		TotalItems:  int64(total),
	}
}

// Paginate cuts the page r selects out of items.
func Paginate[T any](items []T, r PageRequest) ([]T, dto.PaginationInfo) {
	r = r.normalized()
	start := min((r.Page-1)*r.Size, len(items))
	end := min(start+r.Size, len(items))
	return items[start:end], r.Info(len(items))
}
