package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"toy-store/utils"
)

type SessionConfig struct {
	Secret string
	Expiry time.Duration
	Window time.Duration
	Secure bool
}

func SetSessionCookie(c *gin.Context, token string, expiry time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookie, token, int(expiry.Seconds()), "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookie, "", -1, "/", "", secure, true)
}

// SessionRefresh re-issues the session cookie when it is close to expiry.
// The payment callback is registered outside the groups using it, so a
// gateway POST never rewrites the shopper's session.
func SessionRefresh(cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AuthCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := utils.ValidateToken(cfg.Secret, token)
		if err != nil {
			c.Next()
			return
		}
		if claims.ExpiresWithin(cfg.Window) {
			fresh, err := utils.GenerateToken(cfg.Secret, cfg.Expiry, claims.CustomerID, claims.Email)
			if err == nil {
				SetSessionCookie(c, fresh, cfg.Expiry, cfg.Secure)
			}
		}
		c.Next()
	}
}
