package transport

import (
	"github.com/heraerp/heracore/controllers"
	"github.com/heraerp/heracore/lib/service"
	"github.com/labstack/echo/v4"
)

func RegisterV1Endpoints(svc *service.HeraService, e *echo.Echo, secured *echo.Group, securedWithStrictRateLimit *echo.Group, strictRateLimitMiddleware echo.MiddlewareFunc, adminMw echo.MiddlewareFunc, logMw echo.MiddlewareFunc) {
	// Public endpoints for authentication and liveness
	e.POST("/auth", controllers.NewAuthController(svc).Auth, logMw)
	e.GET("/health", controllers.NewHealthController(svc).Health)
	// The cache keys by URL, so only this global endpoint may sit behind it.
	// Tenant-scoped responses must never be cached here.
	e.GET("/info", controllers.NewInfoController(svc).GetServiceInfo, CreateCacheClient().Middleware())

	if svc.Config.AllowUserCreation {
		e.POST("/v1/users", controllers.NewCreateUserController(svc).CreateUser, strictRateLimitMiddleware, adminMw, logMw)
	}
	organizationCtrl := controllers.NewOrganizationController(svc)
	if svc.Config.AdminToken != "" {
		e.POST("/v1/organizations", organizationCtrl.CreateOrganization, strictRateLimitMiddleware, adminMw, logMw)
	}
	secured.GET("/v1/organizations/:organization_id", organizationCtrl.GetOrganization)

	entityCtrl := controllers.NewEntityController(svc)
	fieldCtrl := controllers.NewDynamicDataController(svc)
	relationshipCtrl := controllers.NewRelationshipController(svc)
	transactionCtrl := controllers.NewTransactionController(svc)

	secured.POST("/v1/entities", entityCtrl.CreateEntity)
	secured.GET("/v1/entities", entityCtrl.ListEntities)
	secured.GET("/v1/entities/:entity_id", entityCtrl.GetEntity)
	secured.PUT("/v1/entities/:entity_id", entityCtrl.UpdateEntity)
	secured.DELETE("/v1/entities/:entity_id", entityCtrl.ArchiveEntity)

	secured.PUT("/v1/entities/:entity_id/fields", fieldCtrl.SetFields)
	secured.GET("/v1/entities/:entity_id/fields", fieldCtrl.GetFields)

	secured.POST("/v1/relationships", relationshipCtrl.CreateRelationship)
	secured.GET("/v1/relationships", relationshipCtrl.ListRelationships)
	secured.DELETE("/v1/relationships/:relationship_id", relationshipCtrl.DeactivateRelationship)
	secured.PUT("/v1/entities/:entity_id/status", relationshipCtrl.SetEntityStatus)

	securedWithStrictRateLimit.POST("/v1/transactions", transactionCtrl.CreateTransaction)
	secured.GET("/v1/transactions", transactionCtrl.ListTransactions)
	secured.GET("/v1/transactions/:transaction_id", transactionCtrl.GetTransaction)
	secured.PUT("/v1/transactions/:transaction_id/status", transactionCtrl.UpdateStatus)
	securedWithStrictRateLimit.POST("/v1/transactions/:transaction_id/void", transactionCtrl.VoidTransaction)
	secured.DELETE("/v1/transactions/:transaction_id", transactionCtrl.DeleteTransaction)

	secured.GET("/v1/info", controllers.NewInfoController(svc).GetInfo)
}
