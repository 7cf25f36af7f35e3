package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toy-store/libs"
	"toy-store/middleware"
	"toy-store/models"
	"toy-store/services"
)

// TransactionController covers the checkout flow: payment methods, order
// completion and the PayU round trip.
type TransactionController struct {
	Checkout      *services.CheckoutService
	Payments      *services.PaymentService
	Auth          *services.AuthService
	StorefrontURL string
	Secure        bool
	Logger        *zap.Logger
}

func (ctrl *TransactionController) clearCartCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CartCookie, "", -1, "/", "", ctrl.Secure, true)
}

// @Summary List payment methods
// @Description Providers offered in the region. Falls back to the default provider when the lookup fails
// @Tags Payment
// @Produce json
// @Param region_id query string false "Region ID"
// @Success 200 {array} models.PaymentProvider
// @Router /store/payment-methods [get]
func (ctrl *TransactionController) ListPaymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.Payments.ListPaymentMethods(c.Request.Context(), c.Query("region_id")))
}

// @Summary Complete cart
// @Description Turn the cart into an order. Completing the same cart again returns the existing order
// @Tags Checkout
// @Produce json
// @Param id path string true "Cart ID"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /store/carts/{id}/complete [post]
func (ctrl *TransactionController) CompleteCart(c *gin.Context) {
	order, err := ctrl.Checkout.Complete(c.Request.Context(), c.Param("id"), currentCustomer(c, ctrl.Auth))
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	ctrl.clearCartCookie(c)
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Order placed",
		Data:    order,
	})
}

// @Summary Start PayU payment
// @Description Completes the cart into a pending order and returns the signed form to post to PayU
// @Tags Checkout
// @Security BearerAuth
// @Produce json
// @Param X-Cart-Id header string false "Cart ID, defaults to the cart cookie"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /checkout/payu [post]
func (ctrl *TransactionController) StartPayU(c *gin.Context) {
	cartID := middleware.CartID(c)
	if cartID == "" {
		respondCheckoutError(c, services.ErrNotFound)
		return
	}

	req, err := ctrl.Checkout.StartPayU(c.Request.Context(), cartID, currentCustomer(c, ctrl.Auth))
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	ctrl.clearCartCookie(c)
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Payment request created",
		Data:    req,
	})
}

// @Summary PayU callback
// @Description Gateway return URL. The response hash is verified before the order is marked paid
// @Tags Checkout
// @Accept x-www-form-urlencoded
// @Success 303
// @Router /payment/payu/callback [post]
func (ctrl *TransactionController) PayUCallback(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		ctrl.redirectFailure(c, "invalid_callback")
		return
	}

	result, err := ctrl.Payments.HandlePayUCallback(c.Request.Context(), libs.ParseCallback(c.Request.PostForm))
	switch {
	case errors.Is(err, libs.ErrHashMismatch), errors.Is(err, services.ErrAmountMismatch):
		ctrl.redirectFailure(c, "verification_failed")
	case err != nil:
		if status, _ := errorStatus(err); status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		ctrl.redirectFailure(c, "payment_error")
	case !result.Paid:
		ctrl.redirectFailure(c, "payment_failed")
	default:
		c.Redirect(http.StatusSeeOther, ctrl.storefront("/order/confirmed/"+url.PathEscape(result.Order.ID)))
	}
}

func (ctrl *TransactionController) redirectFailure(c *gin.Context, reason string) {
	q := url.Values{}
	q.Set("step", "payment")
	q.Set("error", reason)
	c.Redirect(http.StatusSeeOther, ctrl.storefront("/checkout?"+q.Encode()))
}

func (ctrl *TransactionController) storefront(path string) string {
	return strings.TrimRight(ctrl.StorefrontURL, "/") + path
}
