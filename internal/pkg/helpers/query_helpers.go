package helpers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ParseIDParam reads a positive int64 path parameter.
func ParseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// QueryFloat returns a pointer to the parsed query value, or nil when absent.
// ok is false when the parameter is present but not a number.
func QueryFloat(c *gin.Context, key string) (v *float64, ok bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return &f, true
}

// QueryBool accepts true/false/1/0. ok is false for anything else.
func QueryBool(c *gin.Context, key string) (v *bool, ok bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, false
	}
	return &b, true
}

// QueryString returns nil for an empty or missing parameter.
func QueryString(c *gin.Context, key string) *string {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	return &raw
}
