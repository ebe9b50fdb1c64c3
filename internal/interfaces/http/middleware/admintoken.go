package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clubgate/clubgate/internal/shared/utils"
)

const adminTokenHeader = "X-Admin-Token"

// AdminToken guards admin routes with a static token. An empty configured
// token disables the routes entirely rather than leaving them open.
func AdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			utils.ErrorResponse(c, http.StatusNotFound, "not found")
			c.Abort()
			return
		}

		provided := c.GetHeader(adminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid admin token")
			c.Abort()
			return
		}

		c.Next()
	}
}
