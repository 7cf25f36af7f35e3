package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"toy-store/libs"
	"toy-store/middleware"
	"toy-store/models"
	"toy-store/services"
)

// errorStatus maps service errors onto HTTP statuses. Anything unknown is a
// 500 and its message is not echoed to the client.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, strings.TrimPrefix(err.Error(), services.ErrValidation.Error()+": ")
	case errors.Is(err, services.ErrCartCompleted):
		return http.StatusConflict, "Cart already completed"
	case errors.Is(err, services.ErrEmailTaken):
		return http.StatusBadRequest, "Email already exists"
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, libs.ErrHashMismatch):
		return http.StatusBadRequest, "Payment verification failed"
	case errors.Is(err, services.ErrAmountMismatch):
		return http.StatusBadRequest, "Payment amount mismatch"
	case errors.Is(err, services.ErrUnknownTransaction):
		return http.StatusNotFound, "Unknown transaction"
	case errors.Is(err, services.ErrPaymentUnavailable):
		return http.StatusServiceUnavailable, "Payment provider unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func respondError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, models.ErrorResponse{Success: false, Message: message})
}

// respondCheckoutError is respondError for checkout routes: a missing cart
// sends the shopper back to the cart page.
func respondCheckoutError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	resp := models.ErrorResponse{Success: false, Message: message}
	if status == http.StatusNotFound {
		resp.Redirect = middleware.CartRedirect
	}
	c.JSON(status, resp)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Message: "Invalid request",
		Error:   err.Error(),
	})
}

// currentCustomer returns the signed-in customer, or nil for anonymous
// requests. A profile lookup failure falls back to the token claims.
func currentCustomer(c *gin.Context, auth *services.AuthService) *models.Customer {
	id := c.GetString(middleware.CtxCustomerID)
	if id == "" {
		return nil
	}
	if auth != nil {
		if customer, err := auth.GetProfile(c.Request.Context(), id); err == nil {
			return customer
		}
	}
	return &models.Customer{ID: id, Email: c.GetString(middleware.CtxCustomerEmail)}
}
