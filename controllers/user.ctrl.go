package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/heraerp/heracore/lib/responses"
	"github.com/heraerp/heracore/lib/service"
	"github.com/labstack/echo/v4"
)

// CreateUserController : Create user controller struct
type CreateUserController struct {
	svc *service.HeraService
}

func NewCreateUserController(svc *service.HeraService) *CreateUserController {
	return &CreateUserController{svc: svc}
}

type CreateUserRequestBody struct {
	OrganizationID string `json:"organization_id"`
	Login          string `json:"login"`
	Password       string `json:"password"`
	Name           string `json:"name"`
}

type CreateUserResponseBody struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Login          string `json:"login"`
	Password       string `json:"password"`
}

// CreateUser godoc
// @Summary      Provision a user
// @Description  Creates a user entity in an organization. Login and password are generated when omitted and the password is returned exactly once.
// @Accept       json
// @Produce      json
// @Tags         User
// @Param        CreateUserRequestBody  body      CreateUserRequestBody  False  "Create User"
// @Success      200                    {object}  CreateUserResponseBody
// @Failure      400                    {object}  responses.ErrorResponse
// @Failure      500                    {object}  responses.ErrorResponse
// @Router       /v1/users [post]
// @Security     OAuth2Password
func (controller *CreateUserController) CreateUser(c echo.Context) error {
	var body CreateUserRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create user request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	organizationID := controller.svc.Config.DefaultOrganizationID
	if body.OrganizationID != "" {
		organizationID = body.OrganizationID
	}
	orgID, err := uuid.Parse(organizationID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.MissingOrganizationError)
	}

	user, err := controller.svc.CreateUser(c.Request().Context(), orgID, body.Login, body.Password, body.Name)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, &CreateUserResponseBody{
		ID:             user.Entity.ID.String(),
		OrganizationID: orgID.String(),
		Login:          user.Login,
		Password:       user.Password,
	})
}
