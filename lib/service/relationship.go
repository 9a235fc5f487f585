package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/heraerp/heracore/common"
	"github.com/heraerp/heracore/db/models"
	"github.com/heraerp/heracore/lib/smartcode"
	"github.com/uptrace/bun"
)

type EnsureRelationshipParams struct {
	OrganizationID   uuid.UUID
	ActorID          uuid.UUID
	FromEntityID     uuid.UUID
	ToEntityID       uuid.UUID
	RelationshipType string
	SmartCode        string
	RelationshipData json.RawMessage
}

// EnsureRelationship creates the (organization, from, to, type) edge if no
// active row exists yet. Calling it twice with the same tuple leaves exactly
// one active row; the second call only refreshes relationship_data.
func (svc *HeraService) EnsureRelationship(ctx context.Context, params EnsureRelationshipParams) (rel *models.Relationship, created bool, err error) {
	if err := svc.requireScope(params.OrganizationID, params.ActorID); err != nil {
		return nil, false, err
	}
	if params.RelationshipType == "" {
		return nil, false, &InvariantViolationError{Rule: "relationship", Message: "relationship_type is required"}
	}
	if params.FromEntityID == params.ToEntityID {
		return nil, false, &InvariantViolationError{Rule: "relationship", Message: "an edge must connect two different entities"}
	}
	if err := smartcode.Validate(params.SmartCode); err != nil {
		return nil, false, err
	}
	if _, err := svc.FindEntity(ctx, params.OrganizationID, params.FromEntityID); err != nil {
		return nil, false, err
	}
	if _, err := svc.FindEntity(ctx, params.OrganizationID, params.ToEntityID); err != nil {
		return nil, false, err
	}

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		existing := &models.Relationship{}
		err := tx.NewSelect().Model(existing).
			Where("organization_id = ? AND from_entity_id = ? AND to_entity_id = ? AND relationship_type = ? AND is_active = true",
				params.OrganizationID, params.FromEntityID, params.ToEntityID, params.RelationshipType).
			Limit(1).Scan(ctx)
		if err == nil {
			rel = existing
			if len(params.RelationshipData) > 0 {
				existing.RelationshipData = params.RelationshipData
				if _, err := tx.NewUpdate().Model(existing).WherePK().Exec(ctx); err != nil {
					return err
				}
			}
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		rel = &models.Relationship{
			OrganizationID:   params.OrganizationID,
			FromEntityID:     params.FromEntityID,
			ToEntityID:       params.ToEntityID,
			RelationshipType: params.RelationshipType,
			RelationshipData: params.RelationshipData,
			SmartCode:        params.SmartCode,
			IsActive:         true,
			CreatedBy:        params.ActorID,
		}
		if _, err := tx.NewInsert().Model(rel).Exec(ctx); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		svc.RecordAuditEvent(ctx, AuditEvent{
			Type:           common.EventRelationshipLinked,
			OrganizationID: params.OrganizationID,
			ActorID:        params.ActorID,
			SubjectID:      rel.ID,
			SubjectType:    rel.RelationshipType,
			SmartCode:      rel.SmartCode,
		})
	}
	return rel, created, nil
}

// EnsureMembership links an entity to its organization with a member_of edge
// carrying to_organization_id instead of a target entity. Idempotent like
// EnsureRelationship.
func (svc *HeraService) EnsureMembership(ctx context.Context, organizationID, actorID, memberEntityID uuid.UUID, data json.RawMessage) (rel *models.Relationship, created bool, err error) {
	if err := svc.requireScope(organizationID, actorID); err != nil {
		return nil, false, err
	}
	if _, err := svc.FindEntity(ctx, organizationID, memberEntityID); err != nil {
		return nil, false, err
	}

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		existing := &models.Relationship{}
		err := tx.NewSelect().Model(existing).
			Where("organization_id = ? AND from_entity_id = ? AND to_organization_id = ? AND relationship_type = ? AND is_active = true",
				organizationID, memberEntityID, organizationID, common.RelationshipTypeMemberOf).
			Limit(1).Scan(ctx)
		if err == nil {
			rel = existing
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		rel = &models.Relationship{
			OrganizationID:   organizationID,
			FromEntityID:     memberEntityID,
			ToOrganizationID: organizationID,
			RelationshipType: common.RelationshipTypeMemberOf,
			RelationshipData: data,
			SmartCode:        common.SmartCodeMembership,
			IsActive:         true,
			CreatedBy:        actorID,
		}
		if _, err := tx.NewInsert().Model(rel).Exec(ctx); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return rel, created, nil
}

// DeactivateRelationship is the standard unlink: the edge stays in place with
// is_active=false so the association is recoverable.
func (svc *HeraService) DeactivateRelationship(ctx context.Context, organizationID, actorID, relationshipID uuid.UUID) (*models.Relationship, error) {
	if err := svc.requireScope(organizationID, actorID); err != nil {
		return nil, err
	}
	rel := &models.Relationship{}
	err := svc.DB.NewSelect().Model(rel).
		Where("organization_id = ? AND id = ?", organizationID, relationshipID).
		Limit(1).Scan(ctx)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	if !rel.IsActive {
		return rel, nil
	}
	rel.IsActive = false
	if _, err := svc.DB.NewUpdate().Model(rel).WherePK().Exec(ctx); err != nil {
		return nil, err
	}

	svc.RecordAuditEvent(ctx, AuditEvent{
		Type:           common.EventRelationshipUnlinked,
		OrganizationID: organizationID,
		ActorID:        actorID,
		SubjectID:      rel.ID,
		SubjectType:    rel.RelationshipType,
		SmartCode:      rel.SmartCode,
	})
	return rel, nil
}

type ListRelationshipsParams struct {
	OrganizationID   uuid.UUID
	EntityID         uuid.UUID
	RelationshipType string
	IncludeInactive  bool
}

// ListRelationships returns edges touching the given entity on either side.
func (svc *HeraService) ListRelationships(ctx context.Context, params ListRelationshipsParams) ([]models.Relationship, error) {
	if err := svc.requireOrganization(params.OrganizationID); err != nil {
		return nil, err
	}
	rels := []models.Relationship{}
	query := svc.DB.NewSelect().Model(&rels).
		Where("relationship.organization_id = ?", params.OrganizationID).
		Where("(relationship.from_entity_id = ? OR relationship.to_entity_id = ?)", params.EntityID, params.EntityID)
	if params.RelationshipType != "" {
		query.Where("relationship.relationship_type = ?", params.RelationshipType)
	}
	if !params.IncludeInactive {
		query.Where("relationship.is_active = true")
	}
	query.OrderExpr("relationship.created_at DESC")
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return rels, nil
}

// SetEntityStatus models workflow state as a has_status edge to a status
// entity. Deactivating the previous edge and creating the new one happen in
// one unit of work, the entity never ends up without an active status.
func (svc *HeraService) SetEntityStatus(ctx context.Context, organizationID, actorID, entityID uuid.UUID, statusName string) (*models.Relationship, error) {
	if err := svc.requireScope(organizationID, actorID); err != nil {
		return nil, err
	}
	if _, err := svc.FindEntity(ctx, organizationID, entityID); err != nil {
		return nil, err
	}
	statusEntity, err := svc.findOrCreateStatusEntity(ctx, organizationID, actorID, statusName)
	if err != nil {
		return nil, err
	}
	if statusEntity.ID == entityID {
		return nil, &InvariantViolationError{Rule: "status", Message: "an entity cannot be its own status"}
	}

	var rel *models.Relationship
	var created bool
	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		current := []models.Relationship{}
		err := tx.NewSelect().Model(&current).
			Where("organization_id = ? AND from_entity_id = ? AND relationship_type = ? AND is_active = true",
				organizationID, entityID, common.RelationshipTypeHasStatus).
			Scan(ctx)
		if err != nil {
			return err
		}
		for i := range current {
			if current[i].ToEntityID == statusEntity.ID {
				// already in this status
				rel = &current[i]
				return nil
			}
		}
		for i := range current {
			current[i].IsActive = false
			if _, err := tx.NewUpdate().Model(&current[i]).WherePK().Exec(ctx); err != nil {
				return err
			}
		}
		rel = &models.Relationship{
			OrganizationID:   organizationID,
			FromEntityID:     entityID,
			ToEntityID:       statusEntity.ID,
			RelationshipType: common.RelationshipTypeHasStatus,
			SmartCode:        common.SmartCodeStatusRelation,
			IsActive:         true,
			CreatedBy:        actorID,
		}
		if _, err := tx.NewInsert().Model(rel).Exec(ctx); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		svc.RecordAuditEvent(ctx, AuditEvent{
			Type:           common.EventRelationshipLinked,
			OrganizationID: organizationID,
			ActorID:        actorID,
			SubjectID:      rel.ID,
			SubjectType:    rel.RelationshipType,
			SmartCode:      rel.SmartCode,
		})
	}
	return rel, nil
}

func (svc *HeraService) findOrCreateStatusEntity(ctx context.Context, organizationID, actorID uuid.UUID, statusName string) (*models.Entity, error) {
	if statusName == "" {
		return nil, &InvariantViolationError{Rule: "status", Message: "status name is required"}
	}
	var entity models.Entity
	err := svc.DB.NewSelect().Model(&entity).
		Where("organization_id = ? AND entity_type = ? AND entity_name = ?",
			organizationID, common.EntityTypeStatus, statusName).
		Limit(1).Scan(ctx)
	if err == nil {
		return &entity, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return svc.CreateEntity(ctx, CreateEntityParams{
		OrganizationID: organizationID,
		ActorID:        actorID,
		EntityType:     common.EntityTypeStatus,
		EntityName:     statusName,
		SmartCode:      common.SmartCodeStatusEntity,
	})
}
