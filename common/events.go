package common

import "time"

// Event types published on entity/transaction writes.
const (
	EventEntityCreated        = "entity.created"
	EventEntityUpdated        = "entity.updated"
	EventEntityArchived       = "entity.archived"
	EventRelationshipLinked   = "relationship.linked"
	EventRelationshipUnlinked = "relationship.unlinked"
	EventTransactionCreated   = "transaction.created"
	EventTransactionStatus    = "transaction.status_changed"
	EventTransactionVoided    = "transaction.voided"
	EventUserProvisioned      = "user.provisioned"
)

// Event is the payload published to the in-process pubsub and forwarded,
// best-effort, to RabbitMQ and the configured webhook.
type Event struct {
	Type           string                 `json:"type"`
	OrganizationID string                 `json:"organization_id"`
	SubjectID      string                 `json:"subject_id"`
	SubjectType    string                 `json:"subject_type"`
	ActorID        string                 `json:"actor_id,omitempty"`
	SmartCode      string                 `json:"smart_code,omitempty"`
	OccurredAt     time.Time              `json:"occurred_at"`
	Payload        map[string]interface{} `json:"payload,omitempty"`
}
