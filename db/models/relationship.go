package models

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Relationship : typed directed edge between two entities, or between an
// entity and an organization for membership-style edges. Used both for plain
// associations and for workflow status edges (subject→status entity).
// Exactly one of to_entity_id / to_organization_id is set. Unlinking flips
// is_active instead of deleting.
type Relationship struct {
	bun.BaseModel `bun:"table:relationships"`

	ID               uuid.UUID       `json:"id" bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	OrganizationID   uuid.UUID       `json:"organization_id" bun:"organization_id,type:uuid,notnull"`
	FromEntityID     uuid.UUID       `json:"from_entity_id" bun:"from_entity_id,type:uuid,notnull" validate:"required"`
	FromEntity       *Entity         `json:"-" bun:"rel:belongs-to,join:from_entity_id=id"`
	ToEntityID       uuid.UUID       `json:"to_entity_id,omitempty" bun:"to_entity_id,type:uuid,nullzero"`
	ToEntity         *Entity         `json:"-" bun:"rel:belongs-to,join:to_entity_id=id"`
	ToOrganizationID uuid.UUID       `json:"to_organization_id,omitempty" bun:"to_organization_id,type:uuid,nullzero"`
	RelationshipType string          `json:"relationship_type" bun:"relationship_type,notnull" validate:"required"`
	RelationshipData json.RawMessage `json:"relationship_data,omitempty" bun:"relationship_data,type:jsonb,nullzero"`
	SmartCode        string          `json:"smart_code" bun:"smart_code,notnull" validate:"required"`
	IsActive         bool            `json:"is_active" bun:"is_active,notnull,default:true"`
	CreatedBy        uuid.UUID       `json:"created_by" bun:"created_by,type:uuid,notnull"`
	CreatedAt        time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt        bun.NullTime    `json:"updated_at"`
}

func (r *Relationship) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		r.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Relationship)(nil)
