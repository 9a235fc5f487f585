package integration_tests

import (
	"log"
	"net/http"
	"testing"

	"github.com/heraerp/heracore/controllers"
	"github.com/heraerp/heracore/db/models"
	"github.com/heraerp/heracore/lib/service"
	"github.com/heraerp/heracore/lib/loaders"
	"github.com/heraerp/heracore/lib/tokens"
	"github.com/heraerp/heracore/lib/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type GetInfoTestSuite struct {
	TestSuite
	service    *service.HeraService
	org        *models.Organization
	otherOrg   *models.Organization
	userToken  string
	otherToken string
}

func (suite *GetInfoTestSuite) SetupSuite() {
	svc, err := HeraTestServiceInit()
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	org, err := createTestOrganization(svc)
	if err != nil {
		log.Fatalf("Error creating test organization: %v", err)
	}
	_, userTokens, err := createUsers(svc, org.ID, 1)
	if err != nil {
		log.Fatalf("Error creating test users: %v", err)
	}
	otherOrg, err := createTestOrganization(svc)
	if err != nil {
		log.Fatalf("Error creating second test organization: %v", err)
	}
	_, otherTokens, err := createUsers(svc, otherOrg.ID, 1)
	if err != nil {
		log.Fatalf("Error creating second test user: %v", err)
	}

	suite.service = svc
	suite.org = org
	suite.otherOrg = otherOrg
	suite.userToken = userTokens[0]
	suite.otherToken = otherTokens[0]

	// The full production route table, cache middlewares included.
	suite.echo = newTestEcho()
	logMw := transport.CreateLoggingMiddleware(svc.Logger)
	strictMw := transport.CreateRateLimitMiddleware(100, 100)
	secured := suite.echo.Group("", tokens.Middleware(svc.Config.JWTSecret), loaders.Middleware(svc), logMw)
	securedStrict := suite.echo.Group("", tokens.Middleware(svc.Config.JWTSecret), loaders.Middleware(svc), strictMw, logMw)
	transport.RegisterV1Endpoints(svc, suite.echo, secured, securedStrict, strictMw, tokens.AdminTokenMiddleware(svc.Config.AdminToken), logMw)
}

func (suite *GetInfoTestSuite) TestHealth() {
	rec := suite.request(http.MethodGet, "/health", "", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *GetInfoTestSuite) TestGetServiceInfo() {
	rec := suite.request(http.MethodGet, "/info", "", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	info := &controllers.ServiceInfoResponseBody{}
	decodeData(&suite.TestSuite, rec, info)
	assert.Equal(suite.T(), "hera-core", info.Name)
	assert.NotEmpty(suite.T(), info.Version)
}

func (suite *GetInfoTestSuite) TestGetInfo() {
	rec := suite.request(http.MethodGet, "/v1/info", suite.userToken, nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	info := &controllers.InfoResponseBody{}
	decodeData(&suite.TestSuite, rec, info)
	assert.Equal(suite.T(), suite.org.ID.String(), info.OrganizationID)
	assert.Equal(suite.T(), suite.org.Name, info.OrganizationName)
}

func (suite *GetInfoTestSuite) TestGetInfoIsTenantScoped() {
	// back to back requests from two tenants must each see their own
	// organization, even with response caching in the middleware chain
	rec := suite.request(http.MethodGet, "/v1/info", suite.userToken, nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	first := &controllers.InfoResponseBody{}
	decodeData(&suite.TestSuite, rec, first)
	assert.Equal(suite.T(), suite.org.ID.String(), first.OrganizationID)

	rec = suite.request(http.MethodGet, "/v1/info", suite.otherToken, nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	second := &controllers.InfoResponseBody{}
	decodeData(&suite.TestSuite, rec, second)
	assert.Equal(suite.T(), suite.otherOrg.ID.String(), second.OrganizationID)
}

func (suite *GetInfoTestSuite) TestGetInfoWithoutToken() {
	rec := suite.request(http.MethodGet, "/v1/info", "", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
}

func (suite *GetInfoTestSuite) TearDownSuite() {
	clearTable(suite.service, "transaction_lines")
	clearTable(suite.service, "transactions")
	clearTable(suite.service, "relationships")
	clearTable(suite.service, "dynamic_data")
	clearTable(suite.service, "entities")
}

func TestGetInfoSuite(t *testing.T) {
	suite.Run(t, new(GetInfoTestSuite))
}
