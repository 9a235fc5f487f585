package responses

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestAuthErrorsNotAllowedForSentry(t *testing.T) {
	authErr := echo.NewHTTPError(http.StatusUnauthorized, "bad auth")

	isAllowed := isErrAllowedForSentry(authErr)
	assert.False(t, isAllowed)
}

func TestNonAuthHTTPErrorsAllowedForSentry(t *testing.T) {
	notAuthErr := echo.NewHTTPError(http.StatusBadRequest, "bad arguments")

	isAllowed := isErrAllowedForSentry(notAuthErr)
	assert.True(t, isAllowed)
}

func TestNonHTTPErrorsAllowedForSentry(t *testing.T) {
	err := errors.New("random error")

	isAllowed := isErrAllowedForSentry(err)
	assert.True(t, isAllowed)
}

func TestValidationErrorCarriesDetails(t *testing.T) {
	resp := ValidationError("invalid smart code", []string{"smart_code"})
	assert.False(t, resp.Success)
	assert.Equal(t, 400, resp.HttpStatusCode)
	assert.Equal(t, []string{"smart_code"}, resp.Details)
}

func TestSuccessEnvelope(t *testing.T) {
	resp := Success(map[string]string{"id": "abc"})
	assert.True(t, resp.Success)
}
