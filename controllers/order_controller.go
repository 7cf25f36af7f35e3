package controllers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"toy-store/middleware"
	"toy-store/models"
	"toy-store/services"
)

type OrderController struct {
	Checkout *services.CheckoutService
}

func (ctrl *OrderController) getPaginationParams(c *gin.Context, defaultLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit, (page - 1) * limit
}

// @Summary Get order history
// @Description Orders placed by the signed-in customer, newest first
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} models.PaginationResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /store/orders [get]
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	page, limit, offset := ctrl.getPaginationParams(c, 10)

	orders, err := ctrl.Checkout.Orders(c.Request.Context(), c.GetString(middleware.CtxCustomerID))
	if err != nil {
		respondError(c, err)
		return
	}

	total := len(orders)
	start := min(offset, total)
	end := min(offset+limit, total)

	c.JSON(http.StatusOK, models.PaginationResponse{
		Success: true,
		Message: "Orders retrieved",
		Data:    orders[start:end],
		Meta: models.MetaData{
			Page:       page,
			Limit:      limit,
			TotalItems: total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// @Summary Get order by ID
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /store/orders/{id} [get]
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	order, err := ctrl.Checkout.Order(c.Request.Context(), c.GetString(middleware.CtxCustomerID), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Order retrieved", Data: order})
}
