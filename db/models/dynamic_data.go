package models

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DynamicData : one typed field value attached to an entity. Exactly one of
// the value_* columns is set, according to field_type.
type DynamicData struct {
	bun.BaseModel `bun:"table:dynamic_data"`

	ID             uuid.UUID       `json:"id" bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	OrganizationID uuid.UUID       `json:"organization_id" bun:"organization_id,type:uuid,notnull"`
	EntityID       uuid.UUID       `json:"entity_id" bun:"entity_id,type:uuid,notnull"`
	Entity         *Entity         `json:"-" bun:"rel:belongs-to,join:entity_id=id"`
	FieldName      string          `json:"field_name" bun:"field_name,notnull" validate:"required"`
	FieldType      string          `json:"field_type" bun:"field_type,notnull" validate:"required"`
	ValueText      *string         `json:"value_text,omitempty" bun:"value_text,nullzero"`
	ValueNumber    *float64        `json:"value_number,omitempty" bun:"value_number,nullzero"`
	ValueBoolean   *bool           `json:"value_boolean,omitempty" bun:"value_boolean,nullzero"`
	ValueDate      *time.Time      `json:"value_date,omitempty" bun:"value_date,nullzero"`
	ValueJSON      json.RawMessage `json:"value_json,omitempty" bun:"value_json,type:jsonb,nullzero"`
	SmartCode      string          `json:"smart_code" bun:"smart_code,notnull" validate:"required"`
	CreatedAt      time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt      bun.NullTime    `json:"updated_at"`
}

func (d *DynamicData) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		d.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*DynamicData)(nil)
