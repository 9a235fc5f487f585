package controllers

import (
	"net/http"

	"github.com/heraerp/heracore/lib/responses"
	"github.com/heraerp/heracore/lib/service"
	"github.com/labstack/echo/v4"
)

// DynamicDataController : Dynamic data controller struct
type DynamicDataController struct {
	svc *service.HeraService
}

func NewDynamicDataController(svc *service.HeraService) *DynamicDataController {
	return &DynamicDataController{svc: svc}
}

type SetFieldsRequestBody struct {
	Fields []service.DynamicFieldInput `json:"fields" validate:"required,min=1,dive"`
}

// SetFields godoc
// @Summary      Set dynamic fields
// @Description  Upserts a batch of typed fields on an entity. The batch is validated as a whole before any write.
// @Accept       json
// @Produce      json
// @Tags         DynamicData
// @Param        entity_id             path      string                true  "Entity ID"
// @Param        SetFieldsRequestBody  body      SetFieldsRequestBody  True  "Fields"
// @Success      200                   {object}  responses.SuccessResponse
// @Failure      400                   {object}  responses.ErrorResponse
// @Failure      404                   {object}  responses.ErrorResponse
// @Router       /v1/entities/{entity_id}/fields [put]
// @Security     OAuth2Password
func (controller *DynamicDataController) SetFields(c echo.Context) error {
	organizationID, userID := tenantScope(c)
	entityID, err := parseUUIDParam(c, "entity_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	var body SetFieldsRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load set fields request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	rows, err := controller.svc.SetDynamicFields(c.Request().Context(), organizationID, userID, entityID, body.Fields)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, responses.Success(rows))
}

// GetFields godoc
// @Summary      Retrieve dynamic fields
// @Description  Returns the raw typed field rows of an entity, ordered by field name
// @Produce      json
// @Tags         DynamicData
// @Param        entity_id  path      string  true  "Entity ID"
// @Success      200        {object}  responses.SuccessResponse
// @Failure      404        {object}  responses.ErrorResponse
// @Router       /v1/entities/{entity_id}/fields [get]
// @Security     OAuth2Password
func (controller *DynamicDataController) GetFields(c echo.Context) error {
	organizationID, _ := tenantScope(c)
	entityID, err := parseUUIDParam(c, "entity_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	if _, err := controller.svc.FindEntity(c.Request().Context(), organizationID, entityID); err != nil {
		return handleServiceError(c, err)
	}
	rows, err := controller.svc.GetDynamicFields(c.Request().Context(), organizationID, entityID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, responses.Success(rows))
}
