package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the flat error shape all endpoints share.
type ErrorBody struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Fail writes an error response. Details carries per-field validation
// messages where they exist.
func Fail(c *gin.Context, status int, message string, details any) {
	c.JSON(status, ErrorBody{Message: message, Details: details})
}

// AbortFail writes an error response and stops the handler chain. For use in
// middleware.
func AbortFail(c *gin.Context, status int, message string, details any) {
	c.AbortWithStatusJSON(status, ErrorBody{Message: message, Details: details})
}
