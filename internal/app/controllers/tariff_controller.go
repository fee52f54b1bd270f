package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/middleware"
)

// TariffController serves the fee schedule
type TariffController struct {
	tariffService services.TariffService
}

// NewTariffController creates a new TariffController
func NewTariffController(tariffService services.TariffService) *TariffController {
	return &TariffController{tariffService: tariffService}
}

// List returns every tariff
// @Summary List tariffs
// @Tags tariffs
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.TariffListResponse}
// @Router /tariffs [get]
func (c *TariffController) List(ctx *gin.Context) {
	tariffs, err := c.tariffService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.TariffListResponse{Tariffs: tariffs}))
}
