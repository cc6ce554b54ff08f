package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-management/internal/handler"
	"github.com/iliyamo/property-management/internal/middleware"
	"github.com/iliyamo/property-management/internal/model"
)

// RegisterLandlord registers LANDLORD-scoped endpoints under /v1.
// All routes require a valid JWT and the LANDLORD role.
func RegisterLandlord(e *echo.Echo, jwtSecret string,
	p *handler.PropertyHandler, m *handler.MaintenanceHandler,
	pay *handler.PaymentHandler, t *handler.TenantHandler) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleLandlord),
	)

	// ---- Properties ----
	g.POST("/properties", p.Create)
	g.PUT("/properties/:id", p.Update)
	g.PATCH("/properties/:id", p.Update) // partial updates use the same handler
	g.DELETE("/properties/:id", p.Delete)

	// ---- Maintenance ----
	// Tenants open requests; landlords move them through their lifecycle.
	g.PUT("/maintenance/:id", m.Update)

	// ---- Payments ----
	g.POST("/payments", pay.Schedule)
	g.PUT("/payments/:id", pay.MarkPaid)

	// ---- Tenants ----
	g.GET("/tenants", t.List)
	g.PUT("/tenants/:id/property", t.AssignProperty)
}
