package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Transaction : business event header (sale, journal entry, audit event).
// Status moves draft → completed|posted → void; only an empty, zero-amount
// draft may ever be hard-deleted.
type Transaction struct {
	bun.BaseModel `bun:"table:transactions"`

	ID              uuid.UUID              `json:"id" bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	OrganizationID  uuid.UUID              `json:"organization_id" bun:"organization_id,type:uuid,notnull"`
	Organization    *Organization          `json:"-" bun:"rel:belongs-to,join:organization_id=id"`
	TransactionType string                 `json:"transaction_type" bun:"transaction_type,notnull" validate:"required"`
	TransactionCode string                 `json:"transaction_code" bun:"transaction_code,notnull"`
	TransactionDate time.Time              `json:"transaction_date" bun:"transaction_date,notnull"`
	SmartCode       string                 `json:"smart_code" bun:"smart_code,notnull" validate:"required"`
	TotalAmount     decimal.Decimal        `json:"total_amount" bun:"total_amount,type:numeric(20,4),notnull"`
	Currency        string                 `json:"currency" bun:"currency,nullzero"`
	Status          string                 `json:"status" bun:"status,notnull,default:'draft'"`
	SourceEntityID  *uuid.UUID             `json:"source_entity_id,omitempty" bun:"source_entity_id,type:uuid,nullzero"`
	SourceEntity    *Entity                `json:"-" bun:"rel:belongs-to,join:source_entity_id=id"`
	TargetEntityID  *uuid.UUID             `json:"target_entity_id,omitempty" bun:"target_entity_id,type:uuid,nullzero"`
	TargetEntity    *Entity                `json:"-" bun:"rel:belongs-to,join:target_entity_id=id"`
	Metadata        map[string]interface{} `json:"metadata,omitempty" bun:"metadata,type:jsonb,nullzero"`
	Lines           []*TransactionLine     `json:"lines,omitempty" bun:"rel:has-many,join:id=transaction_id"`
	CreatedBy       uuid.UUID              `json:"created_by" bun:"created_by,type:uuid,notnull"`
	UpdatedBy       uuid.UUID              `json:"updated_by" bun:"updated_by,type:uuid,nullzero"`
	CreatedAt       time.Time              `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt       bun.NullTime           `json:"updated_at"`
}

func (t *Transaction) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		t.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Transaction)(nil)
