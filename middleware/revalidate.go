package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"toy-store/models"
)

const RevalidateHeader = "X-Revalidate-Secret"

// RevalidateSecret aborts with 401 before the handler runs, so a rejected
// request never invalidates anything.
func RevalidateSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(RevalidateHeader)
		if secret == "" || got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Invalid revalidation secret",
			})
			return
		}
		c.Next()
	}
}
