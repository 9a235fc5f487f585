package tokens

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type jwtCustomClaims struct {
	UserID         string `json:"id"`
	OrganizationID string `json:"organization_id"`
	IsRefresh      bool   `json:"isRefresh"`
	jwt.StandardClaims
}

// GenerateAccessToken mints a short-lived token carrying the actor's user id
// and the organization the session is scoped to.
func GenerateAccessToken(secret []byte, expiryInSeconds int, userID, organizationID uuid.UUID) (string, error) {
	claims := &jwtCustomClaims{
		UserID:         userID.String(),
		OrganizationID: organizationID.String(),
		IsRefresh:      false,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Duration(expiryInSeconds) * time.Second).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	t, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return t, nil
}

func GenerateRefreshToken(secret []byte, expiryInSeconds int, userID, organizationID uuid.UUID) (string, error) {
	claims := &jwtCustomClaims{
		UserID:         userID.String(),
		OrganizationID: organizationID.String(),
		IsRefresh:      true,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Duration(expiryInSeconds) * time.Second).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	t, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return t, nil
}

// ParseToken validates the signature and expiry and returns the claims.
func ParseToken(secret []byte, tokenString string) (userID, organizationID uuid.UUID, isRefresh bool, err error) {
	claims := &jwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.NewValidationError("unexpected signing method", jwt.ValidationErrorSignatureInvalid)
		}
		return secret, nil
	})
	if err != nil {
		return uuid.Nil, uuid.Nil, false, err
	}
	if !token.Valid {
		return uuid.Nil, uuid.Nil, false, jwt.NewValidationError("invalid token", jwt.ValidationErrorClaimsInvalid)
	}
	userID, err = uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, uuid.Nil, false, err
	}
	organizationID, err = uuid.Parse(claims.OrganizationID)
	if err != nil {
		return uuid.Nil, uuid.Nil, false, err
	}
	return userID, organizationID, claims.IsRefresh, nil
}

// Middleware authenticates requests with a Bearer access token and stores the
// actor identity and organization scope on the echo context. Refresh tokens
// are rejected here, they are only good for the auth endpoint.
func Middleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			userID, organizationID, isRefresh, err := ParseToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil || isRefresh {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			c.Set("UserID", userID)
			c.Set("OrganizationID", organizationID)
			return next(c)
		}
	}
}
