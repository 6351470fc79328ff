package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticketing/internal/navigation"
)

// Navigation returns the admin side menu in display order.
func Navigation(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": navigation.Menu()})
}
