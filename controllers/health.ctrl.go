package controllers

import (
	"net/http"

	"github.com/heraerp/heracore/lib/responses"
	"github.com/heraerp/heracore/lib/service"
	"github.com/labstack/echo/v4"
)

// HealthController : HealthController struct
type HealthController struct {
	svc *service.HeraService
}

func NewHealthController(svc *service.HeraService) *HealthController {
	return &HealthController{svc: svc}
}

// Health godoc
// @Summary      Liveness check
// @Description  Pings the database
// @Produce      json
// @Tags         Info
// @Success      200  {object}  responses.SuccessResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /health [get]
func (controller *HealthController) Health(c echo.Context) error {
	if err := controller.svc.DB.PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, responses.UpstreamError(err))
	}
	return c.JSON(http.StatusOK, responses.Success(nil))
}
