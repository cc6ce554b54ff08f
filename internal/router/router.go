package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-management/internal/handler"
	"github.com/iliyamo/property-management/internal/middleware"
	"github.com/iliyamo/property-management/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware. Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token: the presented token is revoked and a
	// new pair is issued.
	g.POST("/refresh", a.Refresh)
	// Logout accepts a refresh token in the body and revokes it; with a valid
	// access token and no body it revokes every session of the caller.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleLandlord, model.RoleTenant))
	auth.GET("/me", a.Me)
}

// RegisterViews registers the read-side endpoints shared by both roles. Each
// handler dispatches on the caller's role to return only data that identity is
// allowed to see, so the routes themselves accept both roles. The cache
// middleware keys responses per user, which keeps role-scoped lists from
// leaking between identities.
func RegisterViews(e *echo.Echo, jwtSecret string, cache echo.MiddlewareFunc,
	p *handler.PropertyHandler, m *handler.MaintenanceHandler,
	pay *handler.PaymentHandler, d *handler.DashboardHandler) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleLandlord, model.RoleTenant),
		cache,
	)
	g.GET("/properties", p.List)
	g.GET("/maintenance", m.List)
	g.GET("/payments", pay.List)
	g.GET("/dashboard", d.Summary)
}
