// Package repository holds data access for users, refresh tokens and saved
// bus layouts.  Sentinel errors below let handlers tell failure scenarios
// apart without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrLayoutNotFound is returned when a layout lookup or delete matches no
// row (or no row owned by the caller).
var ErrLayoutNotFound = errors.New("layout not found")

// ErrLayoutNameTaken is returned when the owner already saved a layout with
// the same name.  Handlers translate it into HTTP 409.
var ErrLayoutNameTaken = errors.New("layout name already used")

// ErrEmailExists is returned when registering an email that is taken.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a user lookup yields no rows.
var ErrUserNotFound = errors.New("user not found")

// ErrTokenInvalid is returned for unknown, revoked or expired refresh tokens.
var ErrTokenInvalid = errors.New("refresh token invalid")

// isDuplicateKey reports whether err is a MySQL unique constraint violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
