package service

import (
	"testing"

	"github.com/heraerp/heracore/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	assert.True(t, CanTransition(common.TransactionStatusDraft, common.TransactionStatusCompleted))
	assert.True(t, CanTransition(common.TransactionStatusDraft, common.TransactionStatusPosted))
	assert.True(t, CanTransition(common.TransactionStatusCompleted, common.TransactionStatusVoid))
	assert.True(t, CanTransition(common.TransactionStatusPosted, common.TransactionStatusVoid))

	// no way back to draft, void is terminal
	assert.False(t, CanTransition(common.TransactionStatusCompleted, common.TransactionStatusDraft))
	assert.False(t, CanTransition(common.TransactionStatusPosted, common.TransactionStatusDraft))
	assert.False(t, CanTransition(common.TransactionStatusVoid, common.TransactionStatusDraft))
	assert.False(t, CanTransition(common.TransactionStatusVoid, common.TransactionStatusPosted))
	assert.False(t, CanTransition(common.TransactionStatusDraft, common.TransactionStatusVoid))
}

func saleLine(number int, amount string) TransactionLineInput {
	return TransactionLineInput{
		LineNumber: number,
		LineType:   common.LineTypeItem,
		Quantity:   decimal.NewFromInt(1),
		UnitAmount: decimal.RequireFromString(amount),
		LineAmount: decimal.RequireFromString(amount),
		SmartCode:  "HERA.SALON.SALE.TXN.LINE.v1",
	}
}

func journalLine(number int, lineType, amount string) TransactionLineInput {
	line := saleLine(number, amount)
	line.LineType = lineType
	line.SmartCode = "HERA.FIN.GL.JOURNAL.LINE.v1"
	return line
}

func TestCheckLinesTotalReconciliation(t *testing.T) {
	lines := []TransactionLineInput{saleLine(1, "100.00"), saleLine(2, "50.00")}

	assert.NoError(t, checkLines(common.TransactionTypeSale, decimal.RequireFromString("150.00"), lines))

	err := checkLines(common.TransactionTypeSale, decimal.RequireFromString("151.00"), lines)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does not equal sum of line amounts")
}

func TestCheckLinesEmptyLinesSkipReconciliation(t *testing.T) {
	assert.NoError(t, checkLines(common.TransactionTypeSale, decimal.RequireFromString("10.00"), nil))
}

func TestCheckLinesRejectsDuplicateLineNumbers(t *testing.T) {
	lines := []TransactionLineInput{saleLine(1, "10.00"), saleLine(1, "10.00")}
	err := checkLines(common.TransactionTypeSale, decimal.RequireFromString("20.00"), lines)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate line_number")
}

func TestCheckLinesRejectsNonPositiveLineNumbers(t *testing.T) {
	line := saleLine(0, "10.00")
	err := checkLines(common.TransactionTypeSale, decimal.RequireFromString("10.00"), []TransactionLineInput{line})
	assert.Error(t, err)
}

func TestCheckLinesJournalMustBalance(t *testing.T) {
	balanced := []TransactionLineInput{
		journalLine(1, common.LineTypeDebit, "500.00"),
		journalLine(2, common.LineTypeCredit, "500.00"),
	}
	assert.NoError(t, checkLines(common.TransactionTypeJournalEntry, decimal.Zero, balanced))

	unbalanced := []TransactionLineInput{
		journalLine(1, common.LineTypeDebit, "500.00"),
		journalLine(2, common.LineTypeCredit, "400.00"),
	}
	err := checkLines(common.TransactionTypeJournalEntry, decimal.Zero, unbalanced)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does not balance")
}

func TestCheckLinesRejectsBadLineSmartCode(t *testing.T) {
	line := saleLine(1, "10.00")
	line.SmartCode = "hera.salon.sale.txn.line.v1"
	err := checkLines(common.TransactionTypeSale, decimal.RequireFromString("10.00"), []TransactionLineInput{line})
	assert.Error(t, err)
}

func TestValidateMetadataClosedKeySet(t *testing.T) {
	assert.NoError(t, ValidateMetadata(nil))
	assert.NoError(t, ValidateMetadata(map[string]interface{}{"source": "pos", "note": "walk-in"}))

	err := ValidateMetadata(map[string]interface{}{"customer_phone": "+971501234001"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "customer_phone")
	assert.Contains(t, err.Error(), "dynamic field")
}
