package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Organization : tenant boundary. Every other row in the system references
// exactly one organization id.
type Organization struct {
	bun.BaseModel `bun:"table:organizations"`

	ID        uuid.UUID    `json:"id" bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name      string       `json:"organization_name" bun:"organization_name,notnull"`
	Code      string       `json:"organization_code" bun:"organization_code,notnull,unique"`
	CreatedAt time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt bun.NullTime `json:"updated_at"`
}

func (o *Organization) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		o.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Organization)(nil)
