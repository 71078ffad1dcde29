package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Page is a limit/offset window over a list query.
type Page struct {
	Limit  uint64
	Offset uint64
}

// NewPage clamps limit and offset into a usable window.
func NewPage(limit, offset int) Page {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Limit: uint64(limit), Offset: uint64(offset)}
}

// ParsePageParams extracts the limit and offset query parameters.
// Malformed values fall back to the defaults instead of failing the request.
func ParsePageParams(c *gin.Context) Page {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil {
		limit = DefaultLimit
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		offset = 0
	}

	return NewPage(limit, offset)
}
