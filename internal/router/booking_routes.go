package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticketing/internal/handler"
	"github.com/iliyamo/bus-ticketing/internal/middleware"
	"github.com/iliyamo/bus-ticketing/internal/model"
)

// RegisterBooking registers the seat selection screen under /v1/bookings.
// Riders and admins may book.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1/bookings",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleRider, model.RoleAdmin),
	)
	g.POST("/sessions", h.CreateSession)
	g.GET("/sessions/:id", h.GetSession)
	g.POST("/sessions/:id/seats", h.SelectSeat)
	g.POST("/sessions/:id/checkout", h.Checkout)
}
