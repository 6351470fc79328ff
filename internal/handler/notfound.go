package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HomePath is where the not-found response points the client.
const HomePath = "/"

// NotFound answers unknown routes.
func NotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{
		"error":   "Page not found",
		"message": "The page you are looking for doesn't exist or has been moved.",
		"home":    HomePath,
	})
}

// ErrorHandler renders errors returned by handlers as {"error": ...}.
// Echo's own 404 for unmatched routes becomes the not-found response;
// anything that is not an *echo.HTTPError is logged and hidden behind 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		he = echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if errors.Is(err, echo.ErrNotFound) || (he.Code == http.StatusNotFound && c.Path() == "") {
		err = NotFound(c)
	} else {
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = c.JSON(he.Code, echo.Map{"error": he.Message})
		}
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
