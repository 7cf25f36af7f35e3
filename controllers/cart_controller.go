package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toy-store/cache"
	"toy-store/middleware"
	"toy-store/models"
	"toy-store/services"
)

type CartController struct {
	Carts    *services.CartService
	Shipping *services.ShippingService
	Payments *services.PaymentService
	Auth     *services.AuthService
	Cache    *cache.TagCache
	Secure   bool
	Logger   *zap.Logger
}

func (ctrl *CartController) setCartCookie(c *gin.Context, cartID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CartCookie, cartID, 60*60*24*30, "/", "", ctrl.Secure, true)
}

func respondCart(c *gin.Context, carts *services.CartService, status int, message string, cart *models.Cart, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, models.Response{
		Success: true,
		Message: message,
		Data: models.CartResponse{
			Cart:    cart,
			Pricing: carts.Pricing(c.Request.Context(), cart),
		},
	})
}

// @Summary Create cart
// @Description Create a cart in the given region, or the default region when none is sent
// @Tags Cart
// @Accept json
// @Produce json
// @Param request body models.CreateCartRequest false "Create Cart Request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /store/carts [post]
func (ctrl *CartController) CreateCart(c *gin.Context) {
	var req models.CreateCartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	cart, err := ctrl.Carts.Create(c.Request.Context(), req.RegionID, currentCustomer(c, ctrl.Auth))
	if err == nil {
		ctrl.setCartCookie(c, cart.ID)
	}
	respondCart(c, ctrl.Carts, http.StatusCreated, "Cart created", cart, err)
}

// @Summary Get cart
// @Description Returns {cart: null} when the cart does not exist or was already completed
// @Tags Cart
// @Produce json
// @Param id path string false "Cart ID"
// @Param fresh query int false "Skip the response cache"
// @Success 200 {object} models.CartResponse
// @Router /store/carts/{id} [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	ctx := c.Request.Context()
	cartID := middleware.CartID(c)
	if cartID == "" {
		c.JSON(http.StatusOK, models.CartResponse{})
		return
	}

	path := "/store/carts/" + cartID
	if c.Query("fresh") != "1" {
		if cached, err := ctrl.Cache.Get(ctx, path); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			return
		}
	}

	view, err := ctrl.Carts.View(ctx, cartID)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := json.Marshal(view)
	if err != nil {
		respondError(c, err)
		return
	}
	if view.Cart != nil {
		if err := ctrl.Cache.Set(ctx, path, data, cache.TagCarts, cache.CartTag(cartID)); err != nil {
			ctrl.Logger.Warn("failed to cache cart", zap.String("cart_id", cartID), zap.Error(err))
		}
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// @Summary Update cart
// @Description Set the cart email and shipping address
// @Tags Cart
// @Accept json
// @Produce json
// @Param id path string true "Cart ID"
// @Param request body models.UpdateCartRequest true "Update Cart Request"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /store/carts/{id} [post]
func (ctrl *CartController) UpdateCart(c *gin.Context) {
	var req models.UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cart, err := ctrl.Carts.Update(c.Request.Context(), c.Param("id"), req)
	respondCart(c, ctrl.Carts, http.StatusOK, "Cart updated", cart, err)
}

// @Summary Add line item
// @Description Add a variant to the cart. Adding a variant already in the cart raises its quantity
// @Tags Cart
// @Accept json
// @Produce json
// @Param id path string true "Cart ID"
// @Param request body models.AddLineItemRequest true "Line Item"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /store/carts/{id}/line-items [post]
func (ctrl *CartController) AddLineItem(c *gin.Context) {
	var req models.AddLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cart, err := ctrl.Carts.AddLineItem(c.Request.Context(), c.Param("id"), req.VariantID, req.Quantity)
	respondCart(c, ctrl.Carts, http.StatusOK, "Item added to cart", cart, err)
}

// @Summary Update line item quantity
// @Description Gift wrap attached to the line follows the new quantity
// @Tags Cart
// @Accept json
// @Produce json
// @Param id path string true "Cart ID"
// @Param line_id path string true "Line item ID"
// @Param request body models.UpdateLineItemRequest true "Quantity"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /store/carts/{id}/line-items/{line_id} [patch]
func (ctrl *CartController) UpdateLineItem(c *gin.Context) {
	var req models.UpdateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cart, err := ctrl.Carts.UpdateLineItem(c.Request.Context(), c.Param("id"), c.Param("line_id"), req.Quantity)
	respondCart(c, ctrl.Carts, http.StatusOK, "Cart updated", cart, err)
}

// @Summary Remove line item
// @Description Removes the line and its gift wrap. Removing a line that is already gone is not an error
// @Tags Cart
// @Produce json
// @Param id path string true "Cart ID"
// @Param line_id path string true "Line item ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /store/carts/{id}/line-items/{line_id} [delete]
func (ctrl *CartController) DeleteLineItem(c *gin.Context) {
	cart, err := ctrl.Carts.RemoveLineItem(c.Request.Context(), c.Param("id"), c.Param("line_id"))
	respondCart(c, ctrl.Carts, http.StatusOK, "Item removed from cart", cart, err)
}

// @Summary Add gift wrap
// @Tags Cart
// @Produce json
// @Param id path string true "Cart ID"
// @Param line_id path string true "Line item ID"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /store/carts/{id}/line-items/{line_id}/gift-wrap [post]
func (ctrl *CartController) AddGiftWrap(c *gin.Context) {
	cart, err := ctrl.Carts.AddGiftWrap(c.Request.Context(), c.Param("id"), c.Param("line_id"))
	respondCart(c, ctrl.Carts, http.StatusOK, "Gift wrap added", cart, err)
}

// @Summary List shipping options
// @Description Options for the cart's region. A missing cart yields an empty list
// @Tags Shipping
// @Produce json
// @Param id path string true "Cart ID"
// @Success 200 {object} models.ShippingOptionsResponse
// @Router /store/carts/{id}/shipping-options [get]
func (ctrl *CartController) ShippingOptions(c *gin.Context) {
	resp, err := ctrl.Shipping.ListForCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Select shipping method
// @Tags Shipping
// @Accept json
// @Produce json
// @Param id path string true "Cart ID"
// @Param request body models.SelectShippingRequest true "Shipping option"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /store/carts/{id}/shipping-methods [post]
func (ctrl *CartController) SelectShipping(c *gin.Context) {
	var req models.SelectShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cart, err := ctrl.Shipping.SelectOption(c.Request.Context(), c.Param("id"), req.OptionID)
	respondCart(c, ctrl.Carts, http.StatusOK, "Shipping method selected", cart, err)
}

// @Summary Select payment provider
// @Description Replaces any pending session with one for the chosen provider
// @Tags Payment
// @Accept json
// @Produce json
// @Param id path string true "Cart ID"
// @Param request body models.SelectPaymentProviderRequest true "Provider"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /store/carts/{id}/payment-sessions [post]
func (ctrl *CartController) SelectPaymentSession(c *gin.Context) {
	var req models.SelectPaymentProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cart, err := ctrl.Payments.SelectProvider(c.Request.Context(), c.Param("id"), req.ProviderID)
	respondCart(c, ctrl.Carts, http.StatusOK, "Payment provider selected", cart, err)
}
