package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLimit is used when no limit is supplied
	DefaultLimit = 20
	// MaxLimit caps the page size a client may request
	MaxLimit = 100
	// DefaultOffset is used when no offset is supplied
	DefaultOffset = 0
)

// Params holds parsed pagination parameters
type Params struct {
	Limit  int
	Offset int
}

// Meta describes a page of results
type Meta struct {
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ParseParams extracts limit/offset query parameters with sane bounds
func ParseParams(c *gin.Context) Params {
	limit := DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
			if limit > MaxLimit {
				limit = MaxLimit
			}
		}
	}

	offset := DefaultOffset
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	return Params{Limit: limit, Offset: offset}
}

// BuildMeta builds pagination metadata for a result set
func BuildMeta(limit, offset int, total int64) *Meta {
	meta := &Meta{
		Limit:  limit,
		Offset: offset,
		Total:  total,
	}

	if limit > 0 && total > 0 {
		meta.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return meta
}

// HasMore reports whether more rows exist past the current page
func HasMore(offset, limit int, total int64) bool {
	return int64(offset+limit) < total
}

// GetCurrentPage returns the 1-based page number for an offset
func GetCurrentPage(offset, limit int) int {
	if limit <= 0 {
		return 1
	}
	return offset/limit + 1
}
