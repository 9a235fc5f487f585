package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/heraerp/heracore/common"
	"github.com/heraerp/heracore/db/models"
	"github.com/heraerp/heracore/lib/smartcode"
	"github.com/uptrace/bun"
)

type CreateEntityParams struct {
	OrganizationID uuid.UUID
	ActorID        uuid.UUID
	EntityType     string
	EntityName     string
	EntityCode     string
	SmartCode      string
	Metadata       map[string]interface{}
	DynamicFields  []DynamicFieldInput
}

// CreateEntity writes the entity row and any initial dynamic fields in one
// unit of work, then records a best-effort audit event.
func (svc *HeraService) CreateEntity(ctx context.Context, params CreateEntityParams) (*models.Entity, error) {
	if err := svc.requireScope(params.OrganizationID, params.ActorID); err != nil {
		return nil, err
	}
	if err := smartcode.Validate(params.SmartCode); err != nil {
		return nil, err
	}
	if err := ValidateMetadata(params.Metadata); err != nil {
		return nil, err
	}
	if params.EntityType == "" || params.EntityName == "" {
		return nil, &InvariantViolationError{Rule: "entity", Message: "entity_type and entity_name are required"}
	}
	rows, err := buildDynamicRows(params.OrganizationID, uuid.Nil, params.DynamicFields)
	if err != nil {
		return nil, err
	}

	entity := &models.Entity{
		OrganizationID: params.OrganizationID,
		EntityType:     params.EntityType,
		EntityName:     params.EntityName,
		EntityCode:     params.EntityCode,
		SmartCode:      params.SmartCode,
		Status:         common.EntityStatusActive,
		Metadata:       params.Metadata,
		CreatedBy:      params.ActorID,
	}
	if entity.EntityCode == "" {
		entity.EntityCode = randomCode(strings.ToUpper(params.EntityType))
	}

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(entity).Exec(ctx); err != nil {
			return err
		}
		for _, row := range rows {
			row.EntityID = entity.ID
			if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	svc.RecordAuditEvent(ctx, AuditEvent{
		Type:           common.EventEntityCreated,
		OrganizationID: params.OrganizationID,
		ActorID:        params.ActorID,
		SubjectID:      entity.ID,
		SubjectType:    entity.EntityType,
		SmartCode:      entity.SmartCode,
	})
	return entity, nil
}

func (svc *HeraService) FindEntity(ctx context.Context, organizationID, entityID uuid.UUID) (*models.Entity, error) {
	if err := svc.requireOrganization(organizationID); err != nil {
		return nil, err
	}
	var entity models.Entity
	err := svc.DB.NewSelect().Model(&entity).
		Where("entity.organization_id = ? AND entity.id = ?", organizationID, entityID).
		Limit(1).Scan(ctx)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &entity, nil
}

type ListEntitiesParams struct {
	OrganizationID uuid.UUID
	EntityType     string
	Status         string
	Limit          int
	Offset         int
}

func (svc *HeraService) ListEntities(ctx context.Context, params ListEntitiesParams) ([]models.Entity, error) {
	if err := svc.requireOrganization(params.OrganizationID); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 || limit > svc.Config.MaxListPageSize {
		limit = svc.Config.MaxListPageSize
	}
	entities := []models.Entity{}
	query := svc.DB.NewSelect().Model(&entities).
		Where("entity.organization_id = ?", params.OrganizationID)
	if params.EntityType != "" {
		query.Where("entity.entity_type = ?", params.EntityType)
	}
	if params.Status != "" {
		query.Where("entity.status = ?", params.Status)
	}
	query.OrderExpr("entity.created_at DESC").Limit(limit).Offset(params.Offset)
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return entities, nil
}

type UpdateEntityParams struct {
	OrganizationID uuid.UUID
	ActorID        uuid.UUID
	EntityID       uuid.UUID
	EntityName     string
	SmartCode      string
	Metadata       map[string]interface{}
}

func (svc *HeraService) UpdateEntity(ctx context.Context, params UpdateEntityParams) (*models.Entity, error) {
	if err := svc.requireScope(params.OrganizationID, params.ActorID); err != nil {
		return nil, err
	}
	entity, err := svc.FindEntity(ctx, params.OrganizationID, params.EntityID)
	if err != nil {
		return nil, err
	}
	if params.EntityName != "" {
		entity.EntityName = params.EntityName
	}
	if params.SmartCode != "" {
		if err := smartcode.Validate(params.SmartCode); err != nil {
			return nil, err
		}
		entity.SmartCode = params.SmartCode
	}
	if params.Metadata != nil {
		if err := ValidateMetadata(params.Metadata); err != nil {
			return nil, err
		}
		entity.Metadata = params.Metadata
	}
	entity.UpdatedBy = params.ActorID
	_, err = svc.DB.NewUpdate().Model(entity).
		WherePK().
		Where("organization_id = ?", params.OrganizationID).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	svc.RecordAuditEvent(ctx, AuditEvent{
		Type:           common.EventEntityUpdated,
		OrganizationID: params.OrganizationID,
		ActorID:        params.ActorID,
		SubjectID:      entity.ID,
		SubjectType:    entity.EntityType,
		SmartCode:      entity.SmartCode,
	})
	return entity, nil
}

// ArchiveEntity is the only "delete" an entity gets: a soft status flip.
// Rows are never physically removed.
func (svc *HeraService) ArchiveEntity(ctx context.Context, organizationID, actorID, entityID uuid.UUID) (*models.Entity, error) {
	if err := svc.requireScope(organizationID, actorID); err != nil {
		return nil, err
	}
	entity, err := svc.FindEntity(ctx, organizationID, entityID)
	if err != nil {
		return nil, err
	}
	entity.Status = common.EntityStatusArchived
	entity.UpdatedBy = actorID
	_, err = svc.DB.NewUpdate().Model(entity).
		WherePK().
		Where("organization_id = ?", organizationID).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	svc.RecordAuditEvent(ctx, AuditEvent{
		Type:           common.EventEntityArchived,
		OrganizationID: organizationID,
		ActorID:        actorID,
		SubjectID:      entity.ID,
		SubjectType:    entity.EntityType,
		SmartCode:      entity.SmartCode,
		OccurredAt:     time.Now(),
	})
	return entity, nil
}
