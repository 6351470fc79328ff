package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// Context keys written by JWTAuth.
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// UserID returns the authenticated user id stored by JWTAuth.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxUserID).(uint64)
	return id, ok && id > 0
}

// Role returns the authenticated role stored by JWTAuth, or "".
func Role(c echo.Context) string {
	r, _ := c.Get(ctxRole).(string)
	return r
}

// SetIdentity stores the caller identity the way JWTAuth does.  Handler
// tests use it to skip token signing.
func SetIdentity(c echo.Context, userID uint64, role string) {
	c.Set(ctxUserID, userID)
	c.Set(ctxRole, role)
}

// callerKey identifies the caller for cache and rate-limit keys.
func callerKey(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
