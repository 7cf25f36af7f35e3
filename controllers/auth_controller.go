package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"toy-store/middleware"
	"toy-store/models"
	"toy-store/services"
)

type AuthController struct {
	Auth   *services.AuthService
	Expiry time.Duration
	Secure bool
}

// Register godoc
// @Summary Register new customer
// @Description Register a new customer account and start a session
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Register Request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := ctrl.Auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetSessionCookie(c, resp.Token, ctrl.Expiry, ctrl.Secure)
	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Registration successful",
		Data:    resp,
	})
}

// Login godoc
// @Summary Customer login
// @Description Login with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := ctrl.Auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetSessionCookie(c, resp.Token, ctrl.Expiry, ctrl.Secure)
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Login successful",
		Data:    resp,
	})
}

// Logout godoc
// @Summary Logout
// @Tags Authentication
// @Produce json
// @Success 200 {object} models.Response
// @Router /auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, ctrl.Secure)
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Logged out"})
}

// GetProfile godoc
// @Summary Get customer profile
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/profile [get]
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	customer, err := ctrl.Auth.GetProfile(c.Request.Context(), c.GetString(middleware.CtxCustomerID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Profile retrieved",
		Data:    customer,
	})
}
