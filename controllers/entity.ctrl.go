package controllers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/heraerp/heracore/db/models"
	"github.com/heraerp/heracore/lib/loaders"
	"github.com/heraerp/heracore/lib/responses"
	"github.com/heraerp/heracore/lib/service"
	"github.com/labstack/echo/v4"
)

// EntityController : Entity controller struct
type EntityController struct {
	svc *service.HeraService
}

func NewEntityController(svc *service.HeraService) *EntityController {
	return &EntityController{svc: svc}
}

type CreateEntityRequestBody struct {
	EntityType    string                      `json:"entity_type" validate:"required"`
	EntityName    string                      `json:"entity_name" validate:"required"`
	EntityCode    string                      `json:"entity_code"`
	SmartCode     string                      `json:"smart_code" validate:"required"`
	Metadata      map[string]interface{}      `json:"metadata"`
	DynamicFields []service.DynamicFieldInput `json:"dynamic_fields"`
}

type UpdateEntityRequestBody struct {
	EntityName string                 `json:"entity_name"`
	SmartCode  string                 `json:"smart_code"`
	Metadata   map[string]interface{} `json:"metadata"`
}

type EntityResponseBody struct {
	*models.Entity
	DynamicFields map[string]interface{} `json:"dynamic_fields,omitempty"`
}

// CreateEntity godoc
// @Summary      Create an entity
// @Description  Creates a business object with optional initial dynamic fields
// @Accept       json
// @Produce      json
// @Tags         Entity
// @Param        CreateEntityRequestBody  body      CreateEntityRequestBody  True  "Create Entity"
// @Success      200                      {object}  responses.SuccessResponse
// @Failure      400                      {object}  responses.ErrorResponse
// @Failure      500                      {object}  responses.ErrorResponse
// @Router       /v1/entities [post]
// @Security     OAuth2Password
func (controller *EntityController) CreateEntity(c echo.Context) error {
	organizationID, userID := tenantScope(c)

	var body CreateEntityRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create entity request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	entity, err := controller.svc.CreateEntity(c.Request().Context(), service.CreateEntityParams{
		OrganizationID: organizationID,
		ActorID:        userID,
		EntityType:     body.EntityType,
		EntityName:     body.EntityName,
		EntityCode:     body.EntityCode,
		SmartCode:      body.SmartCode,
		Metadata:       body.Metadata,
		DynamicFields:  body.DynamicFields,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, responses.Success(entity))
}

// ListEntities godoc
// @Summary      List entities
// @Description  Returns entities of the caller's organization, newest first. Pass hydrate=true to include dynamic fields.
// @Produce      json
// @Tags         Entity
// @Param        entity_type  query     string  false  "Filter by entity type"
// @Param        status       query     string  false  "Filter by status"
// @Param        hydrate      query     bool    false  "Include dynamic fields"
// @Success      200          {object}  responses.SuccessResponse
// @Failure      500          {object}  responses.ErrorResponse
// @Router       /v1/entities [get]
// @Security     OAuth2Password
func (controller *EntityController) ListEntities(c echo.Context) error {
	organizationID, _ := tenantScope(c)

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	entities, err := controller.svc.ListEntities(c.Request().Context(), service.ListEntitiesParams{
		OrganizationID: organizationID,
		EntityType:     c.QueryParam("entity_type"),
		Status:         c.QueryParam("status"),
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	hydrate, _ := strconv.ParseBool(c.QueryParam("hydrate"))
	response := make([]EntityResponseBody, len(entities))
	entityIDs := make([]uuid.UUID, len(entities))
	for i := range entities {
		response[i] = EntityResponseBody{Entity: &entities[i]}
		entityIDs[i] = entities[i].ID
	}
	if hydrate && len(entities) > 0 && loaders.For(c) != nil {
		fields, errs := loaders.GetFieldsMany(c, entityIDs)
		for i := range response {
			if errs != nil && errs[i] != nil {
				c.Logger().Errorf("Failed to hydrate entity %v: %v", entityIDs[i], errs[i])
				continue
			}
			response[i].DynamicFields = fields[i]
		}
	}

	return c.JSON(http.StatusOK, responses.Success(response))
}

// GetEntity godoc
// @Summary      Retrieve an entity
// @Description  Returns one entity with its dynamic fields hydrated
// @Produce      json
// @Tags         Entity
// @Param        entity_id  path      string  true  "Entity ID"
// @Success      200        {object}  responses.SuccessResponse
// @Failure      404        {object}  responses.ErrorResponse
// @Router       /v1/entities/{entity_id} [get]
// @Security     OAuth2Password
func (controller *EntityController) GetEntity(c echo.Context) error {
	organizationID, _ := tenantScope(c)
	entityID, err := parseUUIDParam(c, "entity_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	entity, err := controller.svc.FindEntity(c.Request().Context(), organizationID, entityID)
	if err != nil {
		return handleServiceError(c, err)
	}

	fields := map[string]interface{}{}
	if loaders.For(c) != nil {
		fields, err = loaders.GetFields(c, entity.ID)
		if err != nil {
			c.Logger().Errorf("Failed to hydrate entity %v: %v", entity.ID, err)
			fields = map[string]interface{}{}
		}
	}

	return c.JSON(http.StatusOK, responses.Success(&EntityResponseBody{
		Entity:        entity,
		DynamicFields: fields,
	}))
}

// UpdateEntity godoc
// @Summary      Update an entity
// @Description  Updates name, smart code or metadata of an entity
// @Accept       json
// @Produce      json
// @Tags         Entity
// @Param        entity_id                path      string                   true  "Entity ID"
// @Param        UpdateEntityRequestBody  body      UpdateEntityRequestBody  True  "Update Entity"
// @Success      200                      {object}  responses.SuccessResponse
// @Failure      400                      {object}  responses.ErrorResponse
// @Failure      404                      {object}  responses.ErrorResponse
// @Router       /v1/entities/{entity_id} [put]
// @Security     OAuth2Password
func (controller *EntityController) UpdateEntity(c echo.Context) error {
	organizationID, userID := tenantScope(c)
	entityID, err := parseUUIDParam(c, "entity_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	var body UpdateEntityRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load update entity request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	entity, err := controller.svc.UpdateEntity(c.Request().Context(), service.UpdateEntityParams{
		OrganizationID: organizationID,
		ActorID:        userID,
		EntityID:       entityID,
		EntityName:     body.EntityName,
		SmartCode:      body.SmartCode,
		Metadata:       body.Metadata,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, responses.Success(entity))
}

// ArchiveEntity godoc
// @Summary      Archive an entity
// @Description  Soft-deletes an entity by flipping its status to archived. The row is kept.
// @Produce      json
// @Tags         Entity
// @Param        entity_id  path      string  true  "Entity ID"
// @Success      200        {object}  responses.SuccessResponse
// @Failure      404        {object}  responses.ErrorResponse
// @Router       /v1/entities/{entity_id} [delete]
// @Security     OAuth2Password
func (controller *EntityController) ArchiveEntity(c echo.Context) error {
	organizationID, userID := tenantScope(c)
	entityID, err := parseUUIDParam(c, "entity_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	entity, err := controller.svc.ArchiveEntity(c.Request().Context(), organizationID, userID, entityID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, responses.Success(entity))
}
