package handler // handler defines http handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticketing/internal/middleware"
)

// errNoIdentity means a protected handler ran without JWTAuth in front.
var errNoIdentity = errors.New("invalid user_id in context")

// currentUser returns the authenticated user id.
func currentUser(c echo.Context) (uint64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, errNoIdentity
	}
	return id, nil
}

// notify answers 422 with a notification the client shows as is.  State is
// never changed when this is returned.
func notify(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
}

// RequestValidator adapts validator/v10 to echo.Validator.
type RequestValidator struct {
	v *validator.Validate
}

// NewRequestValidator returns a validator for request DTOs.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator.  Failures become 400 with the first
// offending field.
func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.v.Struct(i); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return echo.NewHTTPError(http.StatusBadRequest, "invalid "+fe.Field()+": "+fe.Tag())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// bindValid binds the body into dst and runs the echo validator.
func bindValid(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return c.Validate(dst)
}

// formValue accepts a JSON number or string and keeps its text.  Form
// fields arrive as strings from some clients and as numbers from others;
// the parsing rules are applied afterwards.
type formValue string

func (f *formValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = formValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = formValue(n.String())
	return nil
}

// pathUint parses a numeric path parameter.
func pathUint(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	return n, err == nil && n > 0
}
