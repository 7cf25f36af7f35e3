package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"toy-store/models"
	"toy-store/services"
)

type RevalidateController struct {
	Service *services.RevalidateService
}

// @Summary Revalidate cached responses
// @Description Drops cached responses by tag and path. Requires the X-Revalidate-Secret header
// @Tags Cache
// @Accept json
// @Produce json
// @Param X-Revalidate-Secret header string true "Revalidation secret"
// @Param request body models.RevalidateRequest true "Tags and paths"
// @Success 200 {object} models.RevalidateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /revalidate [post]
func (ctrl *RevalidateController) Revalidate(c *gin.Context) {
	var req models.RevalidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := ctrl.Service.Revalidate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
