package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// TransactionLine : ordered item within a transaction. line_number is
// caller-assigned and unique within the transaction; journal-entry lines are
// tagged debit/credit and must balance.
type TransactionLine struct {
	bun.BaseModel `bun:"table:transaction_lines"`

	ID             uuid.UUID       `json:"id" bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	OrganizationID uuid.UUID       `json:"organization_id" bun:"organization_id,type:uuid,notnull"`
	TransactionID  uuid.UUID       `json:"transaction_id" bun:"transaction_id,type:uuid,notnull"`
	Transaction    *Transaction    `json:"-" bun:"rel:belongs-to,join:transaction_id=id"`
	LineNumber     int             `json:"line_number" bun:"line_number,notnull" validate:"required,gt=0"`
	LineType       string          `json:"line_type" bun:"line_type,notnull" validate:"required"`
	EntityID       *uuid.UUID      `json:"entity_id,omitempty" bun:"entity_id,type:uuid,nullzero"`
	Entity         *Entity         `json:"-" bun:"rel:belongs-to,join:entity_id=id"`
	Quantity       decimal.Decimal `json:"quantity" bun:"quantity,type:numeric(20,4),notnull"`
	UnitAmount     decimal.Decimal `json:"unit_amount" bun:"unit_amount,type:numeric(20,4),notnull"`
	LineAmount     decimal.Decimal `json:"line_amount" bun:"line_amount,type:numeric(20,4),notnull"`
	SmartCode      string          `json:"smart_code" bun:"smart_code,notnull" validate:"required"`
	LineData       json.RawMessage `json:"line_data,omitempty" bun:"line_data,type:jsonb,nullzero"`
	CreatedAt      time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
