package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toy-store/cache"
	"toy-store/models"
	"toy-store/services"
)

type ProductController struct {
	Products *services.ProductService
	Cache    *cache.TagCache
	Logger   *zap.Logger
}

func productListPath(page, limit int) string {
	return fmt.Sprintf("/store/products?page=%d&limit=%d", page, limit)
}

// @Summary Get all products
// @Description Get paginated list of sellable variants
// @Tags Products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} models.PaginationResponse
// @Router /store/products [get]
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	ctx := c.Request.Context()

	path := productListPath(page, limit)
	if cached, err := ctrl.Cache.Get(ctx, path); err == nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	response, err := ctrl.Products.GetAllProducts(ctx, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	jsonData, err := json.Marshal(response)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctrl.Cache.Set(ctx, path, jsonData, cache.TagProducts); err != nil {
		ctrl.Logger.Warn("failed to cache product list", zap.Error(err))
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", jsonData)
}

// @Summary Get product by ID
// @Tags Products
// @Produce json
// @Param id path string true "Variant ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /store/products/{id} [get]
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	variant, err := ctrl.Products.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Product retrieved", Data: variant})
}
