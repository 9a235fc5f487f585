package service

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound marks a lookup that matched no row within the caller's
// organization scope.
var ErrNotFound = errors.New("not found")

// InvariantViolationError names a business rule that a write attempted to
// break. These always surface to the caller as 400-class responses.
type InvariantViolationError struct {
	Rule    string
	Message string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

// FieldPolicyError rejects a dynamic field whose name belongs to the reserved
// status/lifecycle namespace, with a remediation hint.
type FieldPolicyError struct {
	FieldName   string
	Remediation string
}

func (e *FieldPolicyError) Error() string {
	return fmt.Sprintf("field %q is reserved for lifecycle state: %s", e.FieldName, e.Remediation)
}

// MetadataKeyError rejects a business-looking key in a free-form metadata
// column.
type MetadataKeyError struct {
	Key string
}

func (e *MetadataKeyError) Error() string {
	return fmt.Sprintf("metadata key %q is not in the permitted set; store business data as a dynamic field instead", e.Key)
}

func wrapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
