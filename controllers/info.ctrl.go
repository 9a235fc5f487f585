package controllers

import (
	"net/http"

	"github.com/heraerp/heracore/lib/responses"
	"github.com/heraerp/heracore/lib/service"
	"github.com/labstack/echo/v4"
)

// InfoController : InfoController struct
type InfoController struct {
	svc *service.HeraService
}

func NewInfoController(svc *service.HeraService) *InfoController {
	return &InfoController{svc: svc}
}

const apiVersion = "1.0.0"

type InfoResponseBody struct {
	OrganizationID   string `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	OrganizationCode string `json:"organization_code"`
}

type ServiceInfoResponseBody struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// GetServiceInfo godoc
// @Summary      Service info
// @Description  Returns global service metadata. Responses are cached.
// @Produce      json
// @Tags         Info
// @Success      200  {object}  responses.SuccessResponse
// @Router       /info [get]
func (controller *InfoController) GetServiceInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, responses.Success(&ServiceInfoResponseBody{
		Name:    "hera-core",
		Version: apiVersion,
	}))
}

// GetInfo godoc
// @Summary      Organization info
// @Description  Returns the caller's organization. Tenant-scoped, never cached.
// @Produce      json
// @Tags         Info
// @Success      200  {object}  responses.SuccessResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/info [get]
// @Security     OAuth2Password
func (controller *InfoController) GetInfo(c echo.Context) error {
	organizationID, _ := tenantScope(c)

	org, err := controller.svc.FindOrganization(c.Request().Context(), organizationID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, responses.Success(&InfoResponseBody{
		OrganizationID:   org.ID.String(),
		OrganizationName: org.Name,
		OrganizationCode: org.Code,
	}))
}
