package integration_tests

import (
	"log"
	"net/http"
	"testing"

	"github.com/heraerp/heracore/common"
	"github.com/heraerp/heracore/controllers"
	"github.com/heraerp/heracore/db/models"
	"github.com/heraerp/heracore/lib/loaders"
	"github.com/heraerp/heracore/lib/service"
	"github.com/heraerp/heracore/lib/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type EntityTestSuite struct {
	TestSuite
	service   *service.HeraService
	org       *models.Organization
	user      *service.ProvisionedUser
	userToken string
}

func (suite *EntityTestSuite) SetupSuite() {
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
	suite.echo.Use(tokens.Middleware(svc.Config.JWTSecret), loaders.Middleware(svc))

	entityCtrl := controllers.NewEntityController(svc)
	fieldCtrl := controllers.NewDynamicDataController(svc)
	suite.echo.POST("/v1/entities", entityCtrl.CreateEntity)
	suite.echo.GET("/v1/entities", entityCtrl.ListEntities)
	suite.echo.GET("/v1/entities/:entity_id", entityCtrl.GetEntity)
	suite.echo.PUT("/v1/entities/:entity_id", entityCtrl.UpdateEntity)
	suite.echo.DELETE("/v1/entities/:entity_id", entityCtrl.ArchiveEntity)
	suite.echo.PUT("/v1/entities/:entity_id/fields", fieldCtrl.SetFields)
	suite.echo.GET("/v1/entities/:entity_id/fields", fieldCtrl.GetFields)
}

func (suite *EntityTestSuite) createEntity(body *controllers.CreateEntityRequestBody) *models.Entity {
	rec := suite.request(http.MethodPost, "/v1/entities", suite.userToken, body)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	entity := &models.Entity{}
	decodeData(&suite.TestSuite, rec, entity)
	return entity
}

func (suite *EntityTestSuite) TestCreateAndHydrateEntity() {
	entity := suite.createEntity(&controllers.CreateEntityRequestBody{
		EntityType: common.EntityTypeCustomer,
		EntityName: "Ada Bell",
		SmartCode:  "HERA.SALON.CRM.CUSTOMER.v1",
		DynamicFields: []service.DynamicFieldInput{
			{FieldName: "phone", FieldType: common.FieldTypeText, Value: "+1 555 0100", SmartCode: "HERA.SALON.CRM.CUSTOMER.PHONE.v1"},
			{FieldName: "loyalty_points", FieldType: common.FieldTypeNumber, Value: 42, SmartCode: "HERA.SALON.CRM.CUSTOMER.LOYALTY.v1"},
		},
	})
	assert.Equal(suite.T(), common.EntityStatusActive, entity.Status)
	assert.NotEmpty(suite.T(), entity.EntityCode)

	rec := suite.request(http.MethodGet, "/v1/entities/"+entity.ID.String(), suite.userToken, nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	var fetched struct {
		models.Entity
		DynamicFields map[string]interface{} `json:"dynamic_fields"`
	}
	decodeData(&suite.TestSuite, rec, &fetched)
	assert.Equal(suite.T(), "Ada Bell", fetched.EntityName)
	assert.Equal(suite.T(), "+1 555 0100", fetched.DynamicFields["phone"])
	assert.Equal(suite.T(), 42.0, fetched.DynamicFields["loyalty_points"])
}

func (suite *EntityTestSuite) TestCreateEntityWithBadSmartCode() {
	rec := suite.request(http.MethodPost, "/v1/entities", suite.userToken, &controllers.CreateEntityRequestBody{
		EntityType: common.EntityTypeCustomer,
		EntityName: "Bad Code",
		SmartCode:  "hera.salon.crm.customer.v1",
	})
	checkErrResponse(&suite.TestSuite, rec)
}

func (suite *EntityTestSuite) TestStatusFieldRejected() {
	entity := suite.createEntity(&controllers.CreateEntityRequestBody{
		EntityType: common.EntityTypeCustomer,
		EntityName: "Colin Reed",
		SmartCode:  "HERA.SALON.CRM.CUSTOMER.v1",
	})

	rec := suite.request(http.MethodPut, "/v1/entities/"+entity.ID.String()+"/fields", suite.userToken, &controllers.SetFieldsRequestBody{
		Fields: []service.DynamicFieldInput{
			{FieldName: "status", FieldType: common.FieldTypeText, Value: "vip", SmartCode: "HERA.SALON.CRM.CUSTOMER.STATUS.v1"},
		},
	})
	errorResponse := checkErrResponse(&suite.TestSuite, rec)
	assert.Contains(suite.T(), errorResponse.Error, "has_status relationship")
}

func (suite *EntityTestSuite) TestUpsertFieldKeepsSingleRow() {
	entity := suite.createEntity(&controllers.CreateEntityRequestBody{
		EntityType: common.EntityTypeCustomer,
		EntityName: "Dora Finch",
		SmartCode:  "HERA.SALON.CRM.CUSTOMER.v1",
	})

	for _, phone := range []string{"+1 555 0101", "+1 555 0102"} {
		rec := suite.request(http.MethodPut, "/v1/entities/"+entity.ID.String()+"/fields", suite.userToken, &controllers.SetFieldsRequestBody{
			Fields: []service.DynamicFieldInput{
				{FieldName: "phone", FieldType: common.FieldTypeText, Value: phone, SmartCode: "HERA.SALON.CRM.CUSTOMER.PHONE.v1"},
			},
		})
		assert.Equal(suite.T(), http.StatusOK, rec.Code)
	}

	rec := suite.request(http.MethodGet, "/v1/entities/"+entity.ID.String()+"/fields", suite.userToken, nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	rows := []models.DynamicData{}
	decodeData(&suite.TestSuite, rec, &rows)
	assert.Len(suite.T(), rows, 1)
	assert.Equal(suite.T(), "+1 555 0102", *rows[0].ValueText)
}

func (suite *EntityTestSuite) TestArchiveKeepsRow() {
	entity := suite.createEntity(&controllers.CreateEntityRequestBody{
		EntityType: common.EntityTypeCustomer,
		EntityName: "Eve Stone",
		SmartCode:  "HERA.SALON.CRM.CUSTOMER.v1",
	})

	rec := suite.request(http.MethodDelete, "/v1/entities/"+entity.ID.String(), suite.userToken, nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	archived := &models.Entity{}
	decodeData(&suite.TestSuite, rec, archived)
	assert.Equal(suite.T(), common.EntityStatusArchived, archived.Status)

	// the row is still retrievable
	rec = suite.request(http.MethodGet, "/v1/entities/"+entity.ID.String(), suite.userToken, nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *EntityTestSuite) TestListEntitiesFiltered() {
	suite.createEntity(&controllers.CreateEntityRequestBody{
		EntityType: common.EntityTypeService,
		EntityName: "Blow Dry",
		SmartCode:  "HERA.SALON.CATALOG.SERVICE.v1",
	})

	rec := suite.request(http.MethodGet, "/v1/entities?entity_type=service&hydrate=true", suite.userToken, nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	var listed []struct {
		models.Entity
		DynamicFields map[string]interface{} `json:"dynamic_fields"`
	}
	decodeData(&suite.TestSuite, rec, &listed)
	assert.NotEmpty(suite.T(), listed)
	for _, item := range listed {
		assert.Equal(suite.T(), common.EntityTypeService, item.EntityType)
	}
}

func (suite *EntityTestSuite) TestCredentialFieldsHiddenFromReads() {
	userEntityID := suite.user.Entity.ID.String()

	rec := suite.request(http.MethodGet, "/v1/entities/"+userEntityID+"/fields", suite.userToken, nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	rows := []models.DynamicData{}
	decodeData(&suite.TestSuite, rec, &rows)
	for _, row := range rows {
		assert.NotEqual(suite.T(), "login", row.FieldName)
		assert.NotEqual(suite.T(), "password_hash", row.FieldName)
	}

	rec = suite.request(http.MethodGet, "/v1/entities/"+userEntityID, suite.userToken, nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	var fetched struct {
		models.Entity
		DynamicFields map[string]interface{} `json:"dynamic_fields"`
	}
	decodeData(&suite.TestSuite, rec, &fetched)
	assert.NotContains(suite.T(), fetched.DynamicFields, "login")
	assert.NotContains(suite.T(), fetched.DynamicFields, "password_hash")
}

func (suite *EntityTestSuite) TearDownSuite() {
	clearTable(suite.service, "transaction_lines")
	clearTable(suite.service, "transactions")
	clearTable(suite.service, "relationships")
	clearTable(suite.service, "dynamic_data")
	clearTable(suite.service, "entities")
}

func TestEntitySuite(t *testing.T) {
	suite.Run(t, new(EntityTestSuite))
}
