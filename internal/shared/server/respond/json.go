package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Redirect writes a navigation payload. Entitlement denials are ordinary
// navigation for the client, not error responses.
func Redirect(c *gin.Context, to string, reason string) {
	JSON(c, http.StatusOK, gin.H{
		"allowed":    false,
		"redirectTo": to,
		"reason":     reason,
	})
}
