// Package respond holds the response helpers shared by all HTTP handlers.
// Success payloads go through OK; failures go through Error so that every
// error body carries the same {error:{code,message,details}} shape.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes payload with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes payload with status 200.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}
