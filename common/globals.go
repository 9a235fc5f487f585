package common

const (
	EntityTypeUser     = "user"
	EntityTypeStatus   = "status"
	EntityTypeCustomer = "customer"
	EntityTypeService  = "service"

	EntityStatusActive   = "active"
	EntityStatusArchived = "archived"

	FieldTypeText     = "text"
	FieldTypeNumber   = "number"
	FieldTypeBoolean  = "boolean"
	FieldTypeDate     = "date"
	FieldTypeDateTime = "datetime"
	FieldTypeJSON     = "json"

	RelationshipTypeMemberOf  = "member_of"
	RelationshipTypeHasStatus = "has_status"

	TransactionTypeAuditEvent   = "audit_event"
	TransactionTypeJournalEntry = "journal_entry"
	TransactionTypeSale         = "sale"

	TransactionStatusDraft     = "draft"
	TransactionStatusCompleted = "completed"
	TransactionStatusPosted    = "posted"
	TransactionStatusVoid      = "void"

	LineTypeItem   = "item"
	LineTypeDebit  = "debit"
	LineTypeCredit = "credit"

	SmartCodeUserEntity = "HERA.SYSTEM.USER.ENTITY.v1"
	// SmartCodeUserFieldPrefix tags credential fields (login, password hash).
	// Rows under this prefix are excluded from every generic read path.
	SmartCodeUserFieldPrefix = "HERA.SYSTEM.USER.FIELD."
	SmartCodeStatusEntity   = "HERA.SYSTEM.STATUS.ENTITY.v1"
	SmartCodeMembership     = "HERA.SYSTEM.USER.MEMBERSHIP.v1"
	SmartCodeAuditEvent     = "HERA.SYSTEM.AUDIT.EVENT.v1"
	SmartCodeStatusRelation = "HERA.SYSTEM.WORKFLOW.STATUS.v1"
	SmartCodeVoidReversal   = "HERA.SYSTEM.TXN.REVERSAL.v1"
)

// AllowedMetadataKeys is the closed set of top-level keys accepted in the
// free-form metadata column on entities and transactions. Anything that looks
// like business data belongs in dynamic_data instead.
var AllowedMetadataKeys = map[string]bool{
	"source":          true,
	"schema_version":  true,
	"note":            true,
	"tags":            true,
	"idempotency_key": true,
	"origin_app":      true,
}

// ValidFieldTypes for dynamic_data rows, each mapping to exactly one typed
// value column.
var ValidFieldTypes = map[string]bool{
	FieldTypeText:     true,
	FieldTypeNumber:   true,
	FieldTypeBoolean:  true,
	FieldTypeDate:     true,
	FieldTypeDateTime: true,
	FieldTypeJSON:     true,
}
