package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticketing/internal/handler"
	"github.com/iliyamo/bus-ticketing/internal/middleware"
	"github.com/iliyamo/bus-ticketing/internal/model"
)

// RegisterLayouts registers the seat layout builder under /v1/layouts.
// Every route requires a valid JWT and the ADMIN role.
func RegisterLayouts(e *echo.Echo, h *handler.LayoutHandler, jwtSecret string) {
	g := e.Group(
		"/v1/layouts",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Drafts (editor sessions) ----
	g.POST("/drafts", h.CreateDraft)
	g.GET("/drafts/:id", h.GetDraft)
	g.PUT("/drafts/:id/config", h.ConfigureDraft)
	g.POST("/drafts/:id/toggle", h.ToggleSeat)
	g.POST("/drafts/:id/save", h.SaveDraft)
	g.DELETE("/drafts/:id", h.DiscardDraft)

	// ---- Saved layouts ----
	g.GET("", h.ListLayouts)
	g.GET("/:id", h.GetLayout)
	g.DELETE("/:id", h.DeleteLayout)
}
