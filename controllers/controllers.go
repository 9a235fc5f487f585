package controllers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/heraerp/heracore/lib/responses"
	"github.com/heraerp/heracore/lib/service"
	"github.com/heraerp/heracore/lib/smartcode"
	"github.com/labstack/echo/v4"
)

// tenantScope pulls the authenticated organization and actor out of the
// request context set by the JWT middleware.
func tenantScope(c echo.Context) (organizationID, userID uuid.UUID) {
	if v, ok := c.Get("OrganizationID").(uuid.UUID); ok {
		organizationID = v
	}
	if v, ok := c.Get("UserID").(uuid.UUID); ok {
		userID = v
	}
	return organizationID, userID
}

// handleServiceError maps service layer failures onto the error envelope.
// Rule violations come back as 400 with the violated rule in the message,
// missing rows as 404, everything else as an opaque 500.
func handleServiceError(c echo.Context, err error) error {
	var invariantErr *service.InvariantViolationError
	var fieldPolicyErr *service.FieldPolicyError
	var metadataErr *service.MetadataKeyError
	var smartCodeErr *smartcode.Error

	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	case errors.As(err, &invariantErr),
		errors.As(err, &fieldPolicyErr),
		errors.As(err, &metadataErr),
		errors.As(err, &smartCodeErr):
		return c.JSON(http.StatusBadRequest, responses.InvariantError(err.Error()))
	}
	c.Logger().Errorf("Unhandled service error: %v", err)
	return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
}

func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
