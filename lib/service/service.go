package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/heraerp/heracore/db/models"
	"github.com/heraerp/heracore/rabbitmq"
	"github.com/labstack/gommon/random"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
)

const alphaNumBytes = random.Alphanumeric

type HeraService struct {
	Config         *Config
	DB             *bun.DB
	Logger         *lecho.Logger
	EventPubSub    *Pubsub
	RabbitMQClient rabbitmq.Client
}

// requireScope rejects writes that arrive without a tenant or an actor before
// any database call is made.
func (svc *HeraService) requireScope(organizationID, actorID uuid.UUID) error {
	if organizationID == uuid.Nil {
		return &InvariantViolationError{Rule: "tenant-scope", Message: "missing organization id"}
	}
	if actorID == uuid.Nil {
		return &InvariantViolationError{Rule: "actor-stamp", Message: "missing actor identity on write"}
	}
	return nil
}

func (svc *HeraService) requireOrganization(organizationID uuid.UUID) error {
	if organizationID == uuid.Nil {
		return &InvariantViolationError{Rule: "tenant-scope", Message: "missing organization id"}
	}
	return nil
}

func (svc *HeraService) FindOrganization(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	err := svc.DB.NewSelect().Model(&org).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &org, nil
}

func (svc *HeraService) CreateOrganization(ctx context.Context, name, code string) (*models.Organization, error) {
	if name == "" || code == "" {
		return nil, &InvariantViolationError{Rule: "organization", Message: "organization name and code are required"}
	}
	org := &models.Organization{Name: name, Code: code}
	if _, err := svc.DB.NewInsert().Model(org).Exec(ctx); err != nil {
		return nil, err
	}
	return org, nil
}

func randomCode(prefix string) string {
	return prefix + "-" + random.String(12, alphaNumBytes)
}
