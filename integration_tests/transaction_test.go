package integration_tests

import (
	"context"
	"log"
	"net/http"
	"testing"

	"github.com/heraerp/heracore/common"
	"github.com/heraerp/heracore/controllers"
	"github.com/heraerp/heracore/db/models"
	"github.com/heraerp/heracore/lib/service"
	"github.com/heraerp/heracore/lib/tokens"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type TransactionTestSuite struct {
	TestSuite
	service   *service.HeraService
	org       *models.Organization
	user      *service.ProvisionedUser
	userToken string
	customer  *models.Entity
}

func (suite *TransactionTestSuite) SetupSuite() {
	svc, err := HeraTestServiceInit()
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	org, err := createTestOrganization(svc)
	if err != nil {
		log.Fatalf("Error creating test organization: %v", err)
	}
	users, userTokens, err := createUsers(svc, org.ID, 1)
	if err != nil {
		log.Fatalf("Error creating test users: %v", err)
	}

	suite.service = svc
	suite.org = org
	suite.user = users[0]
	suite.userToken = userTokens[0]
	suite.echo = newTestEcho()
	suite.echo.Use(tokens.Middleware(svc.Config.JWTSecret))

	transactionCtrl := controllers.NewTransactionController(svc)
	suite.echo.POST("/v1/transactions", transactionCtrl.CreateTransaction)
	suite.echo.GET("/v1/transactions", transactionCtrl.ListTransactions)
	suite.echo.GET("/v1/transactions/:transaction_id", transactionCtrl.GetTransaction)
	suite.echo.PUT("/v1/transactions/:transaction_id/status", transactionCtrl.UpdateStatus)
	suite.echo.POST("/v1/transactions/:transaction_id/void", transactionCtrl.VoidTransaction)
	suite.echo.DELETE("/v1/transactions/:transaction_id", transactionCtrl.DeleteTransaction)

	suite.customer, err = svc.CreateEntity(context.Background(), service.CreateEntityParams{
		OrganizationID: org.ID,
		ActorID:        suite.user.Entity.ID,
		EntityType:     common.EntityTypeCustomer,
		EntityName:     "Ivy Jones",
		SmartCode:      "HERA.SALON.CRM.CUSTOMER.v1",
	})
	if err != nil {
		log.Fatalf("Error creating test customer: %v", err)
	}
}

func (suite *TransactionTestSuite) saleBody(total int64, lineAmounts ...int64) *controllers.CreateTransactionRequestBody {
	customerID := suite.customer.ID
	lines := make([]service.TransactionLineInput, len(lineAmounts))
	for i, amount := range lineAmounts {
		lines[i] = service.TransactionLineInput{
			LineNumber: i + 1,
			LineType:   common.LineTypeItem,
			Quantity:   decimal.NewFromInt(1),
			UnitAmount: decimal.NewFromInt(amount),
			LineAmount: decimal.NewFromInt(amount),
			SmartCode:  "HERA.SALON.POS.SALE.LINE.v1",
		}
	}
	return &controllers.CreateTransactionRequestBody{
		TransactionType: common.TransactionTypeSale,
		SmartCode:       "HERA.SALON.POS.SALE.v1",
		TotalAmount:     decimal.NewFromInt(total),
		Currency:        "USD",
		SourceEntityID:  &customerID,
		Lines:           lines,
	}
}

func (suite *TransactionTestSuite) TestCreateSaleWithLines() {
	rec := suite.request(http.MethodPost, "/v1/transactions", suite.userToken, suite.saleBody(115, 35, 80))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	txn := &models.Transaction{}
	decodeData(&suite.TestSuite, rec, txn)
	assert.Equal(suite.T(), common.TransactionStatusDraft, txn.Status)
	assert.Len(suite.T(), txn.Lines, 2)
	assert.True(suite.T(), txn.TotalAmount.Equal(decimal.NewFromInt(115)))

	rec = suite.request(http.MethodGet, "/v1/transactions/"+txn.ID.String(), suite.userToken, nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	fetched := &models.Transaction{}
	decodeData(&suite.TestSuite, rec, fetched)
	assert.Equal(suite.T(), 1, fetched.Lines[0].LineNumber)
	assert.Equal(suite.T(), 2, fetched.Lines[1].LineNumber)
}

func (suite *TransactionTestSuite) TestTotalMustReconcile() {
	rec := suite.request(http.MethodPost, "/v1/transactions", suite.userToken, suite.saleBody(100, 35, 80))
	errorResponse := checkErrResponse(&suite.TestSuite, rec)
	assert.Contains(suite.T(), errorResponse.Error, "total_amount")
}

func (suite *TransactionTestSuite) TestDuplicateLineNumberRejected() {
	body := suite.saleBody(70, 35, 35)
	body.Lines[1].LineNumber = 1
	rec := suite.request(http.MethodPost, "/v1/transactions", suite.userToken, body)
	errorResponse := checkErrResponse(&suite.TestSuite, rec)
	assert.Contains(suite.T(), errorResponse.Error, "line_number")
}

func (suite *TransactionTestSuite) TestUnbalancedJournalRejected() {
	body := &controllers.CreateTransactionRequestBody{
		TransactionType: common.TransactionTypeJournalEntry,
		SmartCode:       "HERA.FIN.GL.JOURNAL.v1",
		Currency:        "USD",
		Lines: []service.TransactionLineInput{
			{LineNumber: 1, LineType: common.LineTypeDebit, LineAmount: decimal.NewFromInt(100), SmartCode: "HERA.FIN.GL.JOURNAL.LINE.v1"},
			{LineNumber: 2, LineType: common.LineTypeCredit, LineAmount: decimal.NewFromInt(90), SmartCode: "HERA.FIN.GL.JOURNAL.LINE.v1"},
		},
	}
	rec := suite.request(http.MethodPost, "/v1/transactions", suite.userToken, body)
	errorResponse := checkErrResponse(&suite.TestSuite, rec)
	assert.Contains(suite.T(), errorResponse.Error, "balance")
}

func (suite *TransactionTestSuite) journalBody(total, debit, credit int64) *controllers.CreateTransactionRequestBody {
	return &controllers.CreateTransactionRequestBody{
		TransactionType: common.TransactionTypeJournalEntry,
		SmartCode:       "HERA.FIN.GL.JOURNAL.v1",
		TotalAmount:     decimal.NewFromInt(total),
		Currency:        "USD",
		Lines: []service.TransactionLineInput{
			{LineNumber: 1, LineType: common.LineTypeDebit, LineAmount: decimal.NewFromInt(debit), SmartCode: "HERA.FIN.GL.JOURNAL.LINE.v1"},
			{LineNumber: 2, LineType: common.LineTypeCredit, LineAmount: decimal.NewFromInt(credit), SmartCode: "HERA.FIN.GL.JOURNAL.LINE.v1"},
		},
	}
}

func (suite *TransactionTestSuite) TestBalancedJournalAccepted() {
	rec := suite.request(http.MethodPost, "/v1/transactions", suite.userToken, suite.journalBody(100, 100, 100))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	txn := &models.Transaction{}
	decodeData(&suite.TestSuite, rec, txn)
	assert.True(suite.T(), txn.TotalAmount.Equal(decimal.NewFromInt(100)))
}

func (suite *TransactionTestSuite) TestJournalTotalMustEqualDebits() {
	rec := suite.request(http.MethodPost, "/v1/transactions", suite.userToken, suite.journalBody(60, 100, 100))
	errorResponse := checkErrResponse(&suite.TestSuite, rec)
	assert.Contains(suite.T(), errorResponse.Error, "total_amount")
}

func (suite *TransactionTestSuite) TestStateMachine() {
	rec := suite.request(http.MethodPost, "/v1/transactions", suite.userToken, suite.saleBody(35, 35))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	txn := &models.Transaction{}
	decodeData(&suite.TestSuite, rec, txn)

	rec = suite.request(http.MethodPut, "/v1/transactions/"+txn.ID.String()+"/status", suite.userToken, &controllers.UpdateTransactionStatusRequestBody{
		Status: common.TransactionStatusCompleted,
	})
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	// completed cannot go back to draft
	rec = suite.request(http.MethodPut, "/v1/transactions/"+txn.ID.String()+"/status", suite.userToken, &controllers.UpdateTransactionStatusRequestBody{
		Status: common.TransactionStatusDraft,
	})
	checkErrResponse(&suite.TestSuite, rec)
}

func (suite *TransactionTestSuite) TestVoidWritesReversal() {
	rec := suite.request(http.MethodPost, "/v1/transactions", suite.userToken, suite.saleBody(115, 35, 80))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	txn := &models.Transaction{}
	decodeData(&suite.TestSuite, rec, txn)

	rec = suite.request(http.MethodPut, "/v1/transactions/"+txn.ID.String()+"/status", suite.userToken, &controllers.UpdateTransactionStatusRequestBody{
		Status: common.TransactionStatusPosted,
	})
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.request(http.MethodPost, "/v1/transactions/"+txn.ID.String()+"/void", suite.userToken, nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	reversal := &models.Transaction{}
	decodeData(&suite.TestSuite, rec, reversal)
	assert.True(suite.T(), reversal.TotalAmount.Equal(decimal.NewFromInt(-115)))
	assert.Len(suite.T(), reversal.Lines, 2)
	assert.True(suite.T(), reversal.Lines[0].LineAmount.Equal(decimal.NewFromInt(-35)))

	voided, err := suite.service.FindTransaction(context.Background(), suite.org.ID, txn.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), common.TransactionStatusVoid, voided.Status)

	// terminal: voiding again fails
	rec = suite.request(http.MethodPost, "/v1/transactions/"+txn.ID.String()+"/void", suite.userToken, nil)
	checkErrResponse(&suite.TestSuite, rec)
}

func (suite *TransactionTestSuite) TestDeleteOnlyEmptyDraft() {
	// draft with lines cannot be deleted
	rec := suite.request(http.MethodPost, "/v1/transactions", suite.userToken, suite.saleBody(35, 35))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	withLines := &models.Transaction{}
	decodeData(&suite.TestSuite, rec, withLines)

	rec = suite.request(http.MethodDelete, "/v1/transactions/"+withLines.ID.String(), suite.userToken, nil)
	errorResponse := checkErrResponse(&suite.TestSuite, rec)
	assert.Contains(suite.T(), errorResponse.Error, "void it instead")

	// empty zero-amount draft can
	rec = suite.request(http.MethodPost, "/v1/transactions", suite.userToken, &controllers.CreateTransactionRequestBody{
		TransactionType: common.TransactionTypeSale,
		SmartCode:       "HERA.SALON.POS.SALE.v1",
	})
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	empty := &models.Transaction{}
	decodeData(&suite.TestSuite, rec, empty)

	rec = suite.request(http.MethodDelete, "/v1/transactions/"+empty.ID.String(), suite.userToken, nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.request(http.MethodGet, "/v1/transactions/"+empty.ID.String(), suite.userToken, nil)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *TransactionTestSuite) TearDownSuite() {
	clearTable(suite.service, "transaction_lines")
	clearTable(suite.service, "transactions")
	clearTable(suite.service, "relationships")
	clearTable(suite.service, "dynamic_data")
	clearTable(suite.service, "entities")
}

func TestTransactionSuite(t *testing.T) {
	suite.Run(t, new(TransactionTestSuite))
}
