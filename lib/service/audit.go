package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/heraerp/heracore/common"
	"github.com/heraerp/heracore/db/models"
	"github.com/shopspring/decimal"
)

type AuditEvent struct {
	Type           string
	OrganizationID uuid.UUID
	ActorID        uuid.UUID
	SubjectID      uuid.UUID
	SubjectType    string
	SmartCode      string
	OccurredAt     time.Time
	Payload        map[string]interface{}
}

// RecordAuditEvent appends an audit_event transaction row and publishes the
// event in-process. This is best-effort: it runs after the primary write has
// committed, and any failure here is logged and swallowed.
func (svc *HeraService) RecordAuditEvent(ctx context.Context, event AuditEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	row := &models.Transaction{
		OrganizationID:  event.OrganizationID,
		TransactionType: common.TransactionTypeAuditEvent,
		TransactionCode: randomCode("AUD"),
		TransactionDate: event.OccurredAt,
		SmartCode:       common.SmartCodeAuditEvent,
		TotalAmount:     decimal.Zero,
		Status:          common.TransactionStatusCompleted,
		SourceEntityID:  nilIfZero(event.SubjectID),
		Metadata: map[string]interface{}{
			"source": event.Type,
			"note":   event.SubjectType,
		},
		CreatedBy: event.ActorID,
	}
	if _, err := svc.DB.NewInsert().Model(row).Exec(ctx); err != nil {
		svc.Logger.Errorf("Failed to write audit trail entry for %s on %s: %v", event.Type, event.SubjectID, err)
	}

	svc.EventPubSub.Publish(event.Type, common.Event{
		Type:           event.Type,
		OrganizationID: event.OrganizationID.String(),
		SubjectID:      event.SubjectID.String(),
		SubjectType:    event.SubjectType,
		ActorID:        event.ActorID.String(),
		SmartCode:      event.SmartCode,
		OccurredAt:     event.OccurredAt,
		Payload:        event.Payload,
	})
}

func nilIfZero(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
