package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/heraerp/heracore/common"
	"github.com/heraerp/heracore/db/models"
	"github.com/heraerp/heracore/lib/security"
	"github.com/heraerp/heracore/lib/tokens"
	"github.com/labstack/gommon/random"
	"github.com/uptrace/bun"
)

const (
	smartCodeUserLogin    = common.SmartCodeUserFieldPrefix + "LOGIN.v1"
	smartCodeUserPassword = common.SmartCodeUserFieldPrefix + "PASSWORD.v1"
)

type ProvisionedUser struct {
	Entity   *models.Entity `json:"entity"`
	Login    string         `json:"login"`
	Password string         `json:"password"`
}

// CreateUser provisions an actor: a user entity, its credential fields, and a
// member_of edge to the organization. Login/password are generated when not
// supplied; the plain text password is returned once and never stored.
func (svc *HeraService) CreateUser(ctx context.Context, organizationID uuid.UUID, login, password, name string) (*ProvisionedUser, error) {
	if err := svc.requireOrganization(organizationID); err != nil {
		return nil, err
	}
	if login == "" {
		login = random.String(20, alphaNumBytes)
	}
	if password == "" {
		password = random.String(20, alphaNumBytes)
	}
	if name == "" {
		name = login
	}

	existing, err := svc.findUserEntityByLogin(ctx, login)
	if err == nil && existing != nil {
		return nil, &InvariantViolationError{Rule: "login", Message: fmt.Sprintf("login %q already exists", login)}
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// user provisioning is a system write, the user stamps itself
	entity := &models.Entity{
		OrganizationID: organizationID,
		EntityType:     common.EntityTypeUser,
		EntityName:     name,
		EntityCode:     login,
		SmartCode:      common.SmartCodeUserEntity,
		Status:         common.EntityStatusActive,
	}
	entity.ID = uuid.New()
	entity.CreatedBy = entity.ID

	hashed := security.HashPassword(password)
	rows, err := buildDynamicRows(organizationID, entity.ID, []DynamicFieldInput{
		{FieldName: "login", FieldType: common.FieldTypeText, Value: login, SmartCode: smartCodeUserLogin},
		{FieldName: "password_hash", FieldType: common.FieldTypeText, Value: hashed, SmartCode: smartCodeUserPassword},
	})
	if err != nil {
		return nil, err
	}

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(entity).Exec(ctx); err != nil {
			return err
		}
		for _, row := range rows {
			if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, _, err := svc.EnsureMembership(ctx, organizationID, entity.ID, entity.ID, nil); err != nil {
		return nil, err
	}

	svc.RecordAuditEvent(ctx, AuditEvent{
		Type:           common.EventUserProvisioned,
		OrganizationID: organizationID,
		ActorID:        entity.ID,
		SubjectID:      entity.ID,
		SubjectType:    common.EntityTypeUser,
		SmartCode:      entity.SmartCode,
	})

	return &ProvisionedUser{Entity: entity, Login: login, Password: password}, nil
}

// findUserEntityByLogin runs before authentication, so there is no tenant
// scope yet. Logins are unique across all organizations.
func (svc *HeraService) findUserEntityByLogin(ctx context.Context, login string) (*models.Entity, error) {
	var entity models.Entity
	err := svc.DB.NewSelect().Model(&entity).
		Where("entity_type = ? AND entity_code = ?", common.EntityTypeUser, login).
		Limit(1).Scan(ctx)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &entity, nil
}

// GenerateToken authenticates login+password (or a refresh token) and mints
// the JWT pair scoped to the user's organization.
func (svc *HeraService) GenerateToken(ctx context.Context, login, password, inRefreshToken string) (accessToken, refreshToken string, err error) {
	var user *models.Entity

	switch {
	case login != "" || password != "":
		{
			user, err = svc.findUserEntityByLogin(ctx, login)
			if err != nil {
				return "", "", fmt.Errorf("bad auth")
			}
			fields, err := svc.HydrateDynamicFields(ctx, user.OrganizationID, []uuid.UUID{user.ID}, HydrateOptions{FieldNames: []string{"password_hash"}, IncludeCredentials: true})
			if err != nil {
				return "", "", fmt.Errorf("bad auth")
			}
			hashed, _ := fields[user.ID]["password_hash"].(string)
			if !security.VerifyPassword(hashed, password) {
				return "", "", fmt.Errorf("bad auth")
			}
		}
	case inRefreshToken != "":
		{
			userID, organizationID, isRefresh, err := tokens.ParseToken(svc.Config.JWTSecret, inRefreshToken)
			if err != nil || !isRefresh {
				return "", "", fmt.Errorf("bad auth")
			}
			user, err = svc.FindEntity(ctx, organizationID, userID)
			if err != nil {
				return "", "", fmt.Errorf("bad auth")
			}
		}
	default:
		{
			return "", "", fmt.Errorf("login and password or refresh token is required")
		}
	}

	if user.Status != common.EntityStatusActive {
		return "", "", fmt.Errorf("bad auth")
	}

	accessToken, err = tokens.GenerateAccessToken(svc.Config.JWTSecret, svc.Config.JWTAccessTokenExpiry, user.ID, user.OrganizationID)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = tokens.GenerateRefreshToken(svc.Config.JWTSecret, svc.Config.JWTRefreshTokenExpiry, user.ID, user.OrganizationID)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}
