package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/heraerp/heracore/common"
	"github.com/heraerp/heracore/db/models"
	"github.com/heraerp/heracore/lib/smartcode"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// statusTransitions is the transaction state machine. void is terminal and
// nothing ever moves back to draft.
var statusTransitions = map[string][]string{
	common.TransactionStatusDraft:     {common.TransactionStatusCompleted, common.TransactionStatusPosted},
	common.TransactionStatusCompleted: {common.TransactionStatusVoid},
	common.TransactionStatusPosted:    {common.TransactionStatusVoid},
	common.TransactionStatusVoid:      {},
}

// CanTransition reports whether a transaction status change is allowed.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type TransactionLineInput struct {
	LineNumber int             `json:"line_number" validate:"required,gt=0"`
	LineType   string          `json:"line_type" validate:"required"`
	EntityID   *uuid.UUID      `json:"entity_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitAmount decimal.Decimal `json:"unit_amount"`
	LineAmount decimal.Decimal `json:"line_amount"`
	SmartCode  string          `json:"smart_code" validate:"required"`
	LineData   json.RawMessage `json:"line_data,omitempty"`
}

type CreateTransactionParams struct {
	OrganizationID  uuid.UUID
	ActorID         uuid.UUID
	TransactionType string
	TransactionCode string
	TransactionDate time.Time
	SmartCode       string
	TotalAmount     decimal.Decimal
	Currency        string
	Status          string
	SourceEntityID  *uuid.UUID
	TargetEntityID  *uuid.UUID
	Metadata        map[string]interface{}
	Lines           []TransactionLineInput
}

// checkLines verifies the line-level invariants that hold before anything is
// written: unique positive line numbers, valid smart codes, the header total
// reconciling with the line sum, and balanced debits/credits for journals.
func checkLines(transactionType string, totalAmount decimal.Decimal, lines []TransactionLineInput) error {
	if len(lines) == 0 {
		return nil
	}
	seen := map[int]bool{}
	lineSum := decimal.Zero
	debitSum := decimal.Zero
	creditSum := decimal.Zero
	for _, line := range lines {
		if line.LineNumber <= 0 {
			return &InvariantViolationError{Rule: "line-number", Message: fmt.Sprintf("line_number %d must be positive", line.LineNumber)}
		}
		if seen[line.LineNumber] {
			return &InvariantViolationError{Rule: "line-number", Message: fmt.Sprintf("duplicate line_number %d", line.LineNumber)}
		}
		seen[line.LineNumber] = true
		if err := smartcode.Validate(line.SmartCode); err != nil {
			return err
		}
		lineSum = lineSum.Add(line.LineAmount)
		switch line.LineType {
		case common.LineTypeDebit:
			debitSum = debitSum.Add(line.LineAmount)
		case common.LineTypeCredit:
			creditSum = creditSum.Add(line.LineAmount)
		}
	}
	if transactionType == common.TransactionTypeJournalEntry {
		if !debitSum.Equal(creditSum) {
			return &InvariantViolationError{
				Rule:    "journal-balance",
				Message: fmt.Sprintf("journal entry does not balance: debits %s != credits %s", debitSum, creditSum),
			}
		}
		// journal headers carry the debit total, not the line sum
		if !totalAmount.Equal(debitSum) {
			return &InvariantViolationError{
				Rule:    "total-reconciliation",
				Message: fmt.Sprintf("total_amount %s does not equal journal debit total %s", totalAmount, debitSum),
			}
		}
		return nil
	}
	if !totalAmount.Equal(lineSum) {
		return &InvariantViolationError{
			Rule:    "total-reconciliation",
			Message: fmt.Sprintf("total_amount %s does not equal sum of line amounts %s", totalAmount, lineSum),
		}
	}
	return nil
}

// CreateTransaction writes the header and its ordered lines as one unit of
// work. All invariants are checked before the first insert.
func (svc *HeraService) CreateTransaction(ctx context.Context, params CreateTransactionParams) (*models.Transaction, error) {
	if err := svc.requireScope(params.OrganizationID, params.ActorID); err != nil {
		return nil, err
	}
	if err := smartcode.Validate(params.SmartCode); err != nil {
		return nil, err
	}
	if err := ValidateMetadata(params.Metadata); err != nil {
		return nil, err
	}
	if params.TransactionType == "" {
		return nil, &InvariantViolationError{Rule: "transaction", Message: "transaction_type is required"}
	}
	status := params.Status
	if status == "" {
		status = common.TransactionStatusDraft
	}
	if status == common.TransactionStatusVoid {
		return nil, &InvariantViolationError{Rule: "transaction-status", Message: "a transaction cannot be created in void status"}
	}
	if _, known := statusTransitions[status]; !known {
		return nil, &InvariantViolationError{Rule: "transaction-status", Message: fmt.Sprintf("unknown status %q", status)}
	}
	if !params.TotalAmount.IsZero() && params.Currency == "" {
		return nil, &InvariantViolationError{Rule: "currency", Message: "currency is required on monetary transactions"}
	}
	if err := checkLines(params.TransactionType, params.TotalAmount, params.Lines); err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		OrganizationID:  params.OrganizationID,
		TransactionType: params.TransactionType,
		TransactionCode: params.TransactionCode,
		TransactionDate: params.TransactionDate,
		SmartCode:       params.SmartCode,
		TotalAmount:     params.TotalAmount,
		Currency:        params.Currency,
		Status:          status,
		SourceEntityID:  params.SourceEntityID,
		TargetEntityID:  params.TargetEntityID,
		Metadata:        params.Metadata,
		CreatedBy:       params.ActorID,
	}
	if txn.TransactionCode == "" {
		txn.TransactionCode = randomCode("TXN")
	}
	if txn.TransactionDate.IsZero() {
		txn.TransactionDate = time.Now()
	}

	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(txn).Exec(ctx); err != nil {
			return err
		}
		for _, in := range params.Lines {
			line := &models.TransactionLine{
				OrganizationID: params.OrganizationID,
				TransactionID:  txn.ID,
				LineNumber:     in.LineNumber,
				LineType:       in.LineType,
				EntityID:       in.EntityID,
				Quantity:       in.Quantity,
				UnitAmount:     in.UnitAmount,
				LineAmount:     in.LineAmount,
				SmartCode:      in.SmartCode,
				LineData:       in.LineData,
			}
			if _, err := tx.NewInsert().Model(line).Exec(ctx); err != nil {
				return err
			}
			txn.Lines = append(txn.Lines, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	svc.RecordAuditEvent(ctx, AuditEvent{
		Type:           common.EventTransactionCreated,
		OrganizationID: params.OrganizationID,
		ActorID:        params.ActorID,
		SubjectID:      txn.ID,
		SubjectType:    txn.TransactionType,
		SmartCode:      txn.SmartCode,
	})
	return txn, nil
}

func (svc *HeraService) FindTransaction(ctx context.Context, organizationID, transactionID uuid.UUID) (*models.Transaction, error) {
	if err := svc.requireOrganization(organizationID); err != nil {
		return nil, err
	}
	var txn models.Transaction
	err := svc.DB.NewSelect().Model(&txn).
		Relation("Lines", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("line_number ASC")
		}).
		Where("transaction.organization_id = ? AND transaction.id = ?", organizationID, transactionID).
		Limit(1).Scan(ctx)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &txn, nil
}

type ListTransactionsParams struct {
	OrganizationID  uuid.UUID
	TransactionType string
	Status          string
	Limit           int
	Offset          int
}

func (svc *HeraService) ListTransactions(ctx context.Context, params ListTransactionsParams) ([]models.Transaction, error) {
	if err := svc.requireOrganization(params.OrganizationID); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 || limit > svc.Config.MaxListPageSize {
		limit = svc.Config.MaxListPageSize
	}
	txns := []models.Transaction{}
	query := svc.DB.NewSelect().Model(&txns).
		Where("transaction.organization_id = ?", params.OrganizationID)
	if params.TransactionType != "" {
		query.Where("transaction.transaction_type = ?", params.TransactionType)
	}
	if params.Status != "" {
		query.Where("transaction.status = ?", params.Status)
	}
	query.OrderExpr("transaction.transaction_date DESC").Limit(limit).Offset(params.Offset)
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return txns, nil
}

// UpdateTransactionStatus applies one state machine step.
func (svc *HeraService) UpdateTransactionStatus(ctx context.Context, organizationID, actorID, transactionID uuid.UUID, newStatus string) (*models.Transaction, error) {
	if err := svc.requireScope(organizationID, actorID); err != nil {
		return nil, err
	}
	txn, err := svc.FindTransaction(ctx, organizationID, transactionID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(txn.Status, newStatus) {
		return nil, &InvariantViolationError{
			Rule:    "transaction-status",
			Message: fmt.Sprintf("transition %s -> %s is not allowed", txn.Status, newStatus),
		}
	}
	txn.Status = newStatus
	txn.UpdatedBy = actorID
	_, err = svc.DB.NewUpdate().Model(txn).
		WherePK().
		Where("organization_id = ?", organizationID).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	svc.RecordAuditEvent(ctx, AuditEvent{
		Type:           common.EventTransactionStatus,
		OrganizationID: organizationID,
		ActorID:        actorID,
		SubjectID:      txn.ID,
		SubjectType:    txn.TransactionType,
		SmartCode:      txn.SmartCode,
		Payload:        map[string]interface{}{"status": newStatus},
	})
	return txn, nil
}

// DeleteTransaction hard-deletes a transaction. Only an empty, zero-amount
// draft qualifies; everything else needs a compensating void.
func (svc *HeraService) DeleteTransaction(ctx context.Context, organizationID, actorID, transactionID uuid.UUID) error {
	if err := svc.requireScope(organizationID, actorID); err != nil {
		return err
	}
	txn, err := svc.FindTransaction(ctx, organizationID, transactionID)
	if err != nil {
		return err
	}
	if txn.Status != common.TransactionStatusDraft {
		return &InvariantViolationError{
			Rule:    "draft-delete",
			Message: fmt.Sprintf("only draft transactions can be deleted, status is %q; void it instead", txn.Status),
		}
	}
	if len(txn.Lines) > 0 {
		return &InvariantViolationError{
			Rule:    "draft-delete",
			Message: fmt.Sprintf("draft has %d lines and cannot be deleted; void it instead", len(txn.Lines)),
		}
	}
	if !txn.TotalAmount.IsZero() {
		return &InvariantViolationError{
			Rule:    "draft-delete",
			Message: fmt.Sprintf("draft has non-zero total %s and cannot be deleted; void it instead", txn.TotalAmount),
		}
	}
	_, err = svc.DB.NewDelete().Model((*models.Transaction)(nil)).
		Where("organization_id = ? AND id = ?", organizationID, transactionID).
		Exec(ctx)
	return err
}

// VoidTransaction marks the original void and writes a compensating reversal
// transaction with negated line amounts, both inside one unit of work.
func (svc *HeraService) VoidTransaction(ctx context.Context, organizationID, actorID, transactionID uuid.UUID) (*models.Transaction, error) {
	if err := svc.requireScope(organizationID, actorID); err != nil {
		return nil, err
	}
	original, err := svc.FindTransaction(ctx, organizationID, transactionID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(original.Status, common.TransactionStatusVoid) {
		return nil, &InvariantViolationError{
			Rule:    "transaction-void",
			Message: fmt.Sprintf("transaction in status %q cannot be voided", original.Status),
		}
	}

	reversal := &models.Transaction{
		OrganizationID:  organizationID,
		TransactionType: original.TransactionType,
		TransactionCode: randomCode("REV"),
		TransactionDate: time.Now(),
		SmartCode:       common.SmartCodeVoidReversal,
		TotalAmount:     original.TotalAmount.Neg(),
		Currency:        original.Currency,
		Status:          common.TransactionStatusPosted,
		SourceEntityID:  original.SourceEntityID,
		TargetEntityID:  original.TargetEntityID,
		CreatedBy:       actorID,
	}

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(reversal).Exec(ctx); err != nil {
			return err
		}
		for _, line := range original.Lines {
			reversed := &models.TransactionLine{
				OrganizationID: organizationID,
				TransactionID:  reversal.ID,
				LineNumber:     line.LineNumber,
				LineType:       line.LineType,
				EntityID:       line.EntityID,
				Quantity:       line.Quantity,
				UnitAmount:     line.UnitAmount,
				LineAmount:     line.LineAmount.Neg(),
				SmartCode:      common.SmartCodeVoidReversal,
				LineData:       line.LineData,
			}
			if _, err := tx.NewInsert().Model(reversed).Exec(ctx); err != nil {
				return err
			}
			reversal.Lines = append(reversal.Lines, reversed)
		}
		original.Status = common.TransactionStatusVoid
		original.UpdatedBy = actorID
		if _, err := tx.NewUpdate().Model(original).
			WherePK().
			Where("organization_id = ?", organizationID).
			Exec(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	svc.RecordAuditEvent(ctx, AuditEvent{
		Type:           common.EventTransactionVoided,
		OrganizationID: organizationID,
		ActorID:        actorID,
		SubjectID:      original.ID,
		SubjectType:    original.TransactionType,
		SmartCode:      original.SmartCode,
		Payload:        map[string]interface{}{"reversal_id": reversal.ID.String()},
	})
	return reversal, nil
}
