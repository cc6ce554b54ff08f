package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-management/internal/handler"
	"github.com/iliyamo/property-management/internal/middleware"
	"github.com/iliyamo/property-management/internal/model"
)

// RegisterTenant registers TENANT-scoped endpoints under /v1. All routes
// require a valid JWT and the TENANT role. Tenants read their data through
// the shared view routes; the only tenant-exclusive write is opening a
// maintenance request against their assigned property.
func RegisterTenant(e *echo.Echo, jwtSecret string, m *handler.MaintenanceHandler) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleTenant),
	)
	g.POST("/maintenance", m.Create)
}
