package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Entity : generic business object. The entity_type tag is free text
// ("customer", "service", "gl_account", ...), the smart code ties the row to
// the organization's taxonomy.
type Entity struct {
	bun.BaseModel `bun:"table:entities"`

	ID             uuid.UUID              `json:"id" bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	OrganizationID uuid.UUID              `json:"organization_id" bun:"organization_id,type:uuid,notnull"`
	Organization   *Organization          `json:"-" bun:"rel:belongs-to,join:organization_id=id"`
	EntityType     string                 `json:"entity_type" bun:"entity_type,notnull" validate:"required"`
	EntityName     string                 `json:"entity_name" bun:"entity_name,notnull" validate:"required"`
	EntityCode     string                 `json:"entity_code" bun:"entity_code,nullzero"`
	SmartCode      string                 `json:"smart_code" bun:"smart_code,notnull" validate:"required"`
	Status         string                 `json:"status" bun:"status,notnull,default:'active'"`
	Metadata       map[string]interface{} `json:"metadata,omitempty" bun:"metadata,type:jsonb,nullzero"`
	CreatedBy      uuid.UUID              `json:"created_by" bun:"created_by,type:uuid,notnull"`
	UpdatedBy      uuid.UUID              `json:"updated_by" bun:"updated_by,type:uuid,nullzero"`
	CreatedAt      time.Time              `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt      bun.NullTime           `json:"updated_at"`
}

func (e *Entity) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		e.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Entity)(nil)
