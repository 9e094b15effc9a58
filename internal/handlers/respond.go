package handlers

import (
	"github.com/gin-gonic/gin"
)

// hideErrorDetails is set from config: production responses carry only
// the user-facing message, not the underlying error text.
var hideErrorDetails bool

// Configure sets handler-wide behavior from the runtime config.
func Configure(production bool) {
	hideErrorDetails = production
}

// fail writes the standard error envelope, attaching the technical
// error detail outside production.
func fail(c *gin.Context, status int, message string, err error) {
	body := gin.H{"success": false, "message": message}
	if err != nil && !hideErrorDetails {
		body["error"] = err.Error()
	}
	c.JSON(status, body)
}

// ok writes the standard success envelope.
func ok(c *gin.Context, status int, message string, data any) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}
