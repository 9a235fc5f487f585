package controllers

import (
	"net/http"

	"github.com/heraerp/heracore/lib/responses"
	"github.com/heraerp/heracore/lib/service"
	"github.com/labstack/echo/v4"
)

// OrganizationController : Organization controller struct
type OrganizationController struct {
	svc *service.HeraService
}

func NewOrganizationController(svc *service.HeraService) *OrganizationController {
	return &OrganizationController{svc: svc}
}

type CreateOrganizationRequestBody struct {
	Name string `json:"organization_name" validate:"required"`
	Code string `json:"organization_code" validate:"required"`
}

// CreateOrganization godoc
// @Summary      Create an organization
// @Description  Creates a new tenant. Requires the admin token.
// @Accept       json
// @Produce      json
// @Tags         Organization
// @Param        CreateOrganizationRequestBody  body      CreateOrganizationRequestBody  True  "Create Organization"
// @Success      200                            {object}  responses.SuccessResponse
// @Failure      400                            {object}  responses.ErrorResponse
// @Failure      500                            {object}  responses.ErrorResponse
// @Router       /v1/organizations [post]
func (controller *OrganizationController) CreateOrganization(c echo.Context) error {
	var body CreateOrganizationRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create organization request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	org, err := controller.svc.CreateOrganization(c.Request().Context(), body.Name, body.Code)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, responses.Success(org))
}

// GetOrganization godoc
// @Summary      Get an organization
// @Description  Returns the caller's organization record.
// @Produce      json
// @Tags         Organization
// @Param        organization_id  path      string  true  "Organization ID"
// @Success      200              {object}  responses.SuccessResponse
// @Failure      404              {object}  responses.ErrorResponse
// @Failure      500              {object}  responses.ErrorResponse
// @Router       /v1/organizations/{organization_id} [get]
// @Security     OAuth2Password
func (controller *OrganizationController) GetOrganization(c echo.Context) error {
	organizationID, _ := tenantScope(c)

	id, err := parseUUIDParam(c, "organization_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	// Tenant isolation: callers can only read their own organization.
	if id != organizationID {
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	}

	org, err := controller.svc.FindOrganization(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, responses.Success(org))
}
