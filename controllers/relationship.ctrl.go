package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/heraerp/heracore/lib/responses"
	"github.com/heraerp/heracore/lib/service"
	"github.com/labstack/echo/v4"
)

// RelationshipController : Relationship controller struct
type RelationshipController struct {
	svc *service.HeraService
}

func NewRelationshipController(svc *service.HeraService) *RelationshipController {
	return &RelationshipController{svc: svc}
}

type CreateRelationshipRequestBody struct {
	FromEntityID     uuid.UUID       `json:"from_entity_id" validate:"required"`
	ToEntityID       uuid.UUID       `json:"to_entity_id" validate:"required"`
	RelationshipType string          `json:"relationship_type" validate:"required"`
	SmartCode        string          `json:"smart_code" validate:"required"`
	RelationshipData json.RawMessage `json:"relationship_data"`
}

type CreateRelationshipResponseBody struct {
	Relationship interface{} `json:"relationship"`
	Created      bool        `json:"created"`
}

type SetStatusRequestBody struct {
	Status string `json:"status" validate:"required"`
}

// CreateRelationship godoc
// @Summary      Link two entities
// @Description  Creates a typed directed edge. Repeating the call with the same tuple is idempotent and only refreshes the edge payload.
// @Accept       json
// @Produce      json
// @Tags         Relationship
// @Param        CreateRelationshipRequestBody  body      CreateRelationshipRequestBody  True  "Create Relationship"
// @Success      200                            {object}  responses.SuccessResponse
// @Failure      400                            {object}  responses.ErrorResponse
// @Failure      404                            {object}  responses.ErrorResponse
// @Router       /v1/relationships [post]
// @Security     OAuth2Password
func (controller *RelationshipController) CreateRelationship(c echo.Context) error {
	organizationID, userID := tenantScope(c)

	var body CreateRelationshipRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create relationship request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	rel, created, err := controller.svc.EnsureRelationship(c.Request().Context(), service.EnsureRelationshipParams{
		OrganizationID:   organizationID,
		ActorID:          userID,
		FromEntityID:     body.FromEntityID,
		ToEntityID:       body.ToEntityID,
		RelationshipType: body.RelationshipType,
		SmartCode:        body.SmartCode,
		RelationshipData: body.RelationshipData,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, responses.Success(&CreateRelationshipResponseBody{
		Relationship: rel,
		Created:      created,
	}))
}

// ListRelationships godoc
// @Summary      List relationships
// @Description  Returns edges touching an entity on either side. Inactive edges are excluded unless include_inactive=true.
// @Produce      json
// @Tags         Relationship
// @Param        entity_id          query     string  true   "Entity ID"
// @Param        relationship_type  query     string  false  "Filter by relationship type"
// @Param        include_inactive   query     bool    false  "Include deactivated edges"
// @Success      200                {object}  responses.SuccessResponse
// @Failure      400                {object}  responses.ErrorResponse
// @Router       /v1/relationships [get]
// @Security     OAuth2Password
func (controller *RelationshipController) ListRelationships(c echo.Context) error {
	organizationID, _ := tenantScope(c)

	entityID, err := uuid.Parse(c.QueryParam("entity_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	includeInactive, _ := strconv.ParseBool(c.QueryParam("include_inactive"))

	rels, err := controller.svc.ListRelationships(c.Request().Context(), service.ListRelationshipsParams{
		OrganizationID:   organizationID,
		EntityID:         entityID,
		RelationshipType: c.QueryParam("relationship_type"),
		IncludeInactive:  includeInactive,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, responses.Success(rels))
}

// DeactivateRelationship godoc
// @Summary      Unlink a relationship
// @Description  Deactivates an edge. The row stays in place with is_active=false and can be relinked later.
// @Produce      json
// @Tags         Relationship
// @Param        relationship_id  path      string  true  "Relationship ID"
// @Success      200              {object}  responses.SuccessResponse
// @Failure      404              {object}  responses.ErrorResponse
// @Router       /v1/relationships/{relationship_id} [delete]
// @Security     OAuth2Password
func (controller *RelationshipController) DeactivateRelationship(c echo.Context) error {
	organizationID, userID := tenantScope(c)
	relationshipID, err := parseUUIDParam(c, "relationship_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	rel, err := controller.svc.DeactivateRelationship(c.Request().Context(), organizationID, userID, relationshipID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, responses.Success(rel))
}

// SetEntityStatus godoc
// @Summary      Set entity workflow status
// @Description  Moves an entity to a named workflow status by replacing its has_status edge. The status entity is created on first use.
// @Accept       json
// @Produce      json
// @Tags         Relationship
// @Param        entity_id             path      string                true  "Entity ID"
// @Param        SetStatusRequestBody  body      SetStatusRequestBody  True  "Status"
// @Success      200                   {object}  responses.SuccessResponse
// @Failure      400                   {object}  responses.ErrorResponse
// @Failure      404                   {object}  responses.ErrorResponse
// @Router       /v1/entities/{entity_id}/status [put]
// @Security     OAuth2Password
func (controller *RelationshipController) SetEntityStatus(c echo.Context) error {
	organizationID, userID := tenantScope(c)
	entityID, err := parseUUIDParam(c, "entity_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	var body SetStatusRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load set status request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	if _, err := controller.svc.FindEntity(c.Request().Context(), organizationID, entityID); err != nil {
		return handleServiceError(c, err)
	}
	rel, err := controller.svc.SetEntityStatus(c.Request().Context(), organizationID, userID, entityID, body.Status)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, responses.Success(rel))
}
