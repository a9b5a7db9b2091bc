package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS opens the public intake endpoints to any origin. The site frontend is
// served from a different host than this API.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Next()
	}
}

// preflight answers an OPTIONS pre-flight with an empty 200.
func preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}
