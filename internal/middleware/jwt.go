package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticketing/internal/utils"
)

// SignInPath is where unauthenticated clients are sent.
const SignInPath = "/signin"

// JWTAuth validates a Bearer access token and stores the subject and role
// in the request context (see UserID and Role).  Requests without a valid
// token get 401 with the sign-in path and the path they asked for, so the
// client can return there after signing in.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "missing bearer token")
			}
			id, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return unauthorized(c, "invalid token")
			}
			SetIdentity(c, id.UserID, id.Role)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"error":     msg,
		"redirect":  SignInPath,
		"return_to": c.Request().URL.RequestURI(),
	})
}
