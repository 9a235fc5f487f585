package responses

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	Success        bool        `json:"success"`
	Error          string      `json:"error"`
	Details        interface{} `json:"details,omitempty"`
	HttpStatusCode int         `json:"-"`
}

// SuccessResponse is the success envelope returned by every endpoint.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(data interface{}) *SuccessResponse {
	return &SuccessResponse{Success: true, Data: data}
}

var GeneralServerError = ErrorResponse{
	Success:        false,
	Error:          "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Success:        false,
	Error:          "Bad arguments",
	HttpStatusCode: 400,
}

var BadAuthError = ErrorResponse{
	Success:        false,
	Error:          "bad auth",
	HttpStatusCode: 401,
}

var MissingOrganizationError = ErrorResponse{
	Success:        false,
	Error:          "missing organization context",
	HttpStatusCode: 400,
}

var MissingActorError = ErrorResponse{
	Success:        false,
	Error:          "missing actor identity on write",
	HttpStatusCode: 400,
}

var NotFoundError = ErrorResponse{
	Success:        false,
	Error:          "not found",
	HttpStatusCode: 404,
}

var LoginTakenError = ErrorResponse{
	Success:        false,
	Error:          "login already exists",
	HttpStatusCode: 400,
}

// ValidationError returns a 400 envelope carrying the violated rule and,
// where available, a structured list of offending fields.
func ValidationError(message string, details interface{}) ErrorResponse {
	return ErrorResponse{
		Success:        false,
		Error:          message,
		Details:        details,
		HttpStatusCode: 400,
	}
}

// InvariantError returns a 400 envelope naming a violated business rule.
func InvariantError(message string) ErrorResponse {
	return ErrorResponse{
		Success:        false,
		Error:          message,
		HttpStatusCode: 400,
	}
}

func UpstreamError(err error) ErrorResponse {
	return ErrorResponse{
		Success:        false,
		Error:          "upstream failure",
		Details:        err.Error(),
		HttpStatusCode: 500,
	}
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil && isErrAllowedForSentry(err) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("UserID", c.Get("UserID"))
			scope.SetExtra("OrganizationID", c.Get("OrganizationID"))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		c.JSON(he.Code, ErrorResponse{
			Success:        false,
			Error:          http.StatusText(he.Code),
			Details:        he.Message,
			HttpStatusCode: he.Code,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, GeneralServerError)
}

// auth failures are expected noise, keep them out of sentry
func isErrAllowedForSentry(err error) bool {
	he, ok := err.(*echo.HTTPError)
	if !ok {
		return true
	}
	return he.Code != http.StatusUnauthorized
}
