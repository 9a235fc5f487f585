package loaders

import (
	"context"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"
	"github.com/heraerp/heracore/lib/service"
	"github.com/labstack/echo/v4"
)

const contextKey = "DynamicFieldLoader"

type dynamicFieldReader struct {
	svc            *service.HeraService
	organizationID uuid.UUID
}

func (r *dynamicFieldReader) hydrate(ctx context.Context, entityIDs []uuid.UUID) []*dataloader.Result[map[string]interface{}] {
	hydrated, err := r.svc.HydrateDynamicFields(ctx, r.organizationID, entityIDs, service.HydrateOptions{})
	results := make([]*dataloader.Result[map[string]interface{}], 0, len(entityIDs))
	if err != nil {
		for range entityIDs {
			results = append(results, &dataloader.Result[map[string]interface{}]{Error: err})
		}
		return results
	}
	for _, id := range entityIDs {
		results = append(results, &dataloader.Result[map[string]interface{}]{Data: hydrated[id]})
	}
	return results
}

// NewDynamicFieldLoader batches per-request hydration calls for one tenant
// into a single dynamic_data query.
func NewDynamicFieldLoader(svc *service.HeraService, organizationID uuid.UUID) *dataloader.Loader[uuid.UUID, map[string]interface{}] {
	reader := &dynamicFieldReader{svc: svc, organizationID: organizationID}
	return dataloader.NewBatchedLoader(reader.hydrate, dataloader.WithClearCacheOnBatch[uuid.UUID, map[string]interface{}]())
}

// Middleware attaches a request-scoped loader once the tenant scope is known.
// It must run after the auth middleware.
func Middleware(svc *service.HeraService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if organizationID, ok := c.Get("OrganizationID").(uuid.UUID); ok {
				c.Set(contextKey, NewDynamicFieldLoader(svc, organizationID))
			}
			return next(c)
		}
	}
}

// For returns the request-scoped loader set by Middleware.
func For(c echo.Context) *dataloader.Loader[uuid.UUID, map[string]interface{}] {
	loader, _ := c.Get(contextKey).(*dataloader.Loader[uuid.UUID, map[string]interface{}])
	return loader
}

// GetFields hydrates one entity through the request loader.
func GetFields(c echo.Context, entityID uuid.UUID) (map[string]interface{}, error) {
	return For(c).Load(c.Request().Context(), entityID)()
}

// GetFieldsMany hydrates a batch of entities through the request loader.
func GetFieldsMany(c echo.Context, entityIDs []uuid.UUID) ([]map[string]interface{}, []error) {
	return For(c).LoadMany(c.Request().Context(), entityIDs)()
}
