package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/heraerp/heracore/lib/responses"
	"github.com/heraerp/heracore/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// TransactionController : Transaction controller struct
type TransactionController struct {
	svc *service.HeraService
}

func NewTransactionController(svc *service.HeraService) *TransactionController {
	return &TransactionController{svc: svc}
}

type CreateTransactionRequestBody struct {
	TransactionType string                         `json:"transaction_type" validate:"required"`
	TransactionCode string                         `json:"transaction_code"`
	TransactionDate time.Time                      `json:"transaction_date"`
	SmartCode       string                         `json:"smart_code" validate:"required"`
	TotalAmount     decimal.Decimal                `json:"total_amount"`
	Currency        string                         `json:"currency"`
	Status          string                         `json:"status"`
	SourceEntityID  *uuid.UUID                     `json:"source_entity_id"`
	TargetEntityID  *uuid.UUID                     `json:"target_entity_id"`
	Metadata        map[string]interface{}         `json:"metadata"`
	Lines           []service.TransactionLineInput `json:"lines" validate:"dive"`
}

type UpdateTransactionStatusRequestBody struct {
	Status string `json:"status" validate:"required"`
}

// CreateTransaction godoc
// @Summary      Create a transaction
// @Description  Writes a business event header and its ordered lines in one unit of work
// @Accept       json
// @Produce      json
// @Tags         Transaction
// @Param        CreateTransactionRequestBody  body      CreateTransactionRequestBody  True  "Create Transaction"
// @Success      200                           {object}  responses.SuccessResponse
// @Failure      400                           {object}  responses.ErrorResponse
// @Failure      500                           {object}  responses.ErrorResponse
// @Router       /v1/transactions [post]
// @Security     OAuth2Password
func (controller *TransactionController) CreateTransaction(c echo.Context) error {
	organizationID, userID := tenantScope(c)

	var body CreateTransactionRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create transaction request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	txn, err := controller.svc.CreateTransaction(c.Request().Context(), service.CreateTransactionParams{
		OrganizationID:  organizationID,
		ActorID:         userID,
		TransactionType: body.TransactionType,
		TransactionCode: body.TransactionCode,
		TransactionDate: body.TransactionDate,
		SmartCode:       body.SmartCode,
		TotalAmount:     body.TotalAmount,
		Currency:        body.Currency,
		Status:          body.Status,
		SourceEntityID:  body.SourceEntityID,
		TargetEntityID:  body.TargetEntityID,
		Metadata:        body.Metadata,
		Lines:           body.Lines,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, responses.Success(txn))
}

// ListTransactions godoc
// @Summary      List transactions
// @Description  Returns transaction headers of the caller's organization, newest first
// @Produce      json
// @Tags         Transaction
// @Param        transaction_type  query     string  false  "Filter by transaction type"
// @Param        status            query     string  false  "Filter by status"
// @Success      200               {object}  responses.SuccessResponse
// @Failure      500               {object}  responses.ErrorResponse
// @Router       /v1/transactions [get]
// @Security     OAuth2Password
func (controller *TransactionController) ListTransactions(c echo.Context) error {
	organizationID, _ := tenantScope(c)

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	txns, err := controller.svc.ListTransactions(c.Request().Context(), service.ListTransactionsParams{
		OrganizationID:  organizationID,
		TransactionType: c.QueryParam("transaction_type"),
		Status:          c.QueryParam("status"),
		Limit:           limit,
		Offset:          offset,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, responses.Success(txns))
}

// GetTransaction godoc
// @Summary      Retrieve a transaction
// @Description  Returns one transaction with its lines ordered by line number
// @Produce      json
// @Tags         Transaction
// @Param        transaction_id  path      string  true  "Transaction ID"
// @Success      200             {object}  responses.SuccessResponse
// @Failure      404             {object}  responses.ErrorResponse
// @Router       /v1/transactions/{transaction_id} [get]
// @Security     OAuth2Password
func (controller *TransactionController) GetTransaction(c echo.Context) error {
	organizationID, _ := tenantScope(c)
	transactionID, err := parseUUIDParam(c, "transaction_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	txn, err := controller.svc.FindTransaction(c.Request().Context(), organizationID, transactionID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, responses.Success(txn))
}

// UpdateStatus godoc
// @Summary      Update transaction status
// @Description  Applies one step of the draft → completed|posted → void state machine
// @Accept       json
// @Produce      json
// @Tags         Transaction
// @Param        transaction_id                      path      string                              true  "Transaction ID"
// @Param        UpdateTransactionStatusRequestBody  body      UpdateTransactionStatusRequestBody  True  "New status"
// @Success      200                                 {object}  responses.SuccessResponse
// @Failure      400                                 {object}  responses.ErrorResponse
// @Failure      404                                 {object}  responses.ErrorResponse
// @Router       /v1/transactions/{transaction_id}/status [put]
// @Security     OAuth2Password
func (controller *TransactionController) UpdateStatus(c echo.Context) error {
	organizationID, userID := tenantScope(c)
	transactionID, err := parseUUIDParam(c, "transaction_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	var body UpdateTransactionStatusRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load update status request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	txn, err := controller.svc.UpdateTransactionStatus(c.Request().Context(), organizationID, userID, transactionID, body.Status)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, responses.Success(txn))
}

// VoidTransaction godoc
// @Summary      Void a transaction
// @Description  Marks the transaction void and writes a compensating reversal with negated line amounts. Returns the reversal.
// @Produce      json
// @Tags         Transaction
// @Param        transaction_id  path      string  true  "Transaction ID"
// @Success      200             {object}  responses.SuccessResponse
// @Failure      400             {object}  responses.ErrorResponse
// @Failure      404             {object}  responses.ErrorResponse
// @Router       /v1/transactions/{transaction_id}/void [post]
// @Security     OAuth2Password
func (controller *TransactionController) VoidTransaction(c echo.Context) error {
	organizationID, userID := tenantScope(c)
	transactionID, err := parseUUIDParam(c, "transaction_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	reversal, err := controller.svc.VoidTransaction(c.Request().Context(), organizationID, userID, transactionID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, responses.Success(reversal))
}

// DeleteTransaction godoc
// @Summary      Delete a draft transaction
// @Description  Hard-deletes a transaction. Only an empty, zero-amount draft qualifies; anything else must be voided.
// @Produce      json
// @Tags         Transaction
// @Param        transaction_id  path      string  true  "Transaction ID"
// @Success      200             {object}  responses.SuccessResponse
// @Failure      400             {object}  responses.ErrorResponse
// @Failure      404             {object}  responses.ErrorResponse
// @Router       /v1/transactions/{transaction_id} [delete]
// @Security     OAuth2Password
func (controller *TransactionController) DeleteTransaction(c echo.Context) error {
	organizationID, userID := tenantScope(c)
	transactionID, err := parseUUIDParam(c, "transaction_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	if err := controller.svc.DeleteTransaction(c.Request().Context(), organizationID, userID, transactionID); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, responses.Success(nil))
}
