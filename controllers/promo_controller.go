package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"toy-store/models"
	"toy-store/services"
)

// PromoController applies discount codes and gift cards to a cart.
type PromoController struct {
	Carts *services.CartService
}

// @Summary Apply discount code
// @Description Replaces any discount already on the cart
// @Tags Promotions
// @Accept json
// @Produce json
// @Param id path string true "Cart ID"
// @Param request body models.ApplyCodeRequest true "Discount code"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /store/carts/{id}/discounts [post]
func (ctrl *PromoController) ApplyDiscount(c *gin.Context) {
	var req models.ApplyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cart, err := ctrl.Carts.ApplyDiscount(c.Request.Context(), c.Param("id"), req.Code)
	respondCart(c, ctrl.Carts, http.StatusOK, "Discount applied", cart, err)
}

// @Summary Remove discount code
// @Tags Promotions
// @Produce json
// @Param id path string true "Cart ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /store/carts/{id}/discounts [delete]
func (ctrl *PromoController) RemoveDiscount(c *gin.Context) {
	cart, err := ctrl.Carts.RemoveDiscount(c.Request.Context(), c.Param("id"))
	respondCart(c, ctrl.Carts, http.StatusOK, "Discount removed", cart, err)
}

// @Summary Apply gift card
// @Tags Promotions
// @Accept json
// @Produce json
// @Param id path string true "Cart ID"
// @Param request body models.ApplyCodeRequest true "Gift card code"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /store/carts/{id}/gift-cards [post]
func (ctrl *PromoController) ApplyGiftCard(c *gin.Context) {
	var req models.ApplyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cart, err := ctrl.Carts.ApplyGiftCard(c.Request.Context(), c.Param("id"), req.Code)
	respondCart(c, ctrl.Carts, http.StatusOK, "Gift card applied", cart, err)
}
