package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"toy-store/models"
	"toy-store/utils"
)

const (
	AuthCookie = "_toy_jwt"
	CartCookie = "_toy_cart_id"
	CartHeader = "X-Cart-Id"

	LoginRedirect = "/account/login"
	CartRedirect  = "/cart"

	CtxCustomerID    = "customer_id"
	CtxCustomerEmail = "customer_email"
	CtxClaims        = "claims"
)

// bearerToken reads the JWT from the Authorization header, falling back to
// the session cookie.
func bearerToken(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return "", false
		}
		return tokenParts[1], true
	}
	if cookie, err := c.Cookie(AuthCookie); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

// AuthMiddleware rejects requests without a valid token. redirect, when
// set, tells the storefront where to send the shopper.
func AuthMiddleware(secret, redirect string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Success:  false,
				Message:  "Authorization required",
				Redirect: redirect,
			})
			return
		}

		claims, err := utils.ValidateToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Success:  false,
				Message:  "Invalid or expired token",
				Error:    err.Error(),
				Redirect: redirect,
			})
			return
		}

		c.Set(CtxCustomerID, claims.CustomerID)
		c.Set(CtxCustomerEmail, claims.Email)
		c.Set(CtxClaims, claims)
		c.Next()
	}
}

// OptionalAuth attaches the customer when a valid token is present and lets
// anonymous shoppers through.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := utils.ValidateToken(secret, token); err == nil {
				c.Set(CtxCustomerID, claims.CustomerID)
				c.Set(CtxCustomerEmail, claims.Email)
				c.Set(CtxClaims, claims)
			}
		}
		c.Next()
	}
}

// CartID resolves the cart from the path, the X-Cart-Id header or the cart
// cookie, in that order.
func CartID(c *gin.Context) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	if id := c.GetHeader(CartHeader); id != "" {
		return id
	}
	if id, err := c.Cookie(CartCookie); err == nil {
		return id
	}
	return ""
}
