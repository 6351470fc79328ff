package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticketing/internal/handler"
	"github.com/iliyamo/bus-ticketing/internal/middleware"
	"github.com/iliyamo/bus-ticketing/internal/model"
)

// RegisterRoutes registers routes that need no authentication: the health
// check and the side menu.  cache wraps the menu, which never changes at
// runtime.
func RegisterRoutes(e *echo.Echo, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/nav", handler.Navigation, cache)
	e.RouteNotFound("/*", handler.NotFound)
}

// RegisterAuth registers the token endpoints under /v1/auth and the
// protected /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh) // rotates the refresh token
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleRider),
	)
}
