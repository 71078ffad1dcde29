package middleware

import (
	"github.com/gin-gonic/gin"
)

// BindJSON binds and validates the request body into obj.
// On failure the 400 response is already written and false is returned.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleBindingError(c, err)
		return false
	}
	return true
}

// BindOptionalJSON is BindJSON for endpoints whose body may be empty
func BindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return BindJSON(c, obj)
}
