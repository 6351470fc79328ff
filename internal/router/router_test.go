package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-ticketing/internal/booking"
	"github.com/iliyamo/bus-ticketing/internal/config"
	"github.com/iliyamo/bus-ticketing/internal/handler"
	"github.com/iliyamo/bus-ticketing/internal/middleware"
	"github.com/iliyamo/bus-ticketing/internal/model"
	"github.com/iliyamo/bus-ticketing/internal/service"
	"github.com/iliyamo/bus-ticketing/internal/session"
	"github.com/iliyamo/bus-ticketing/internal/utils"
)

const secret = "router-secret"

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = handler.ErrorHandler

	sessions := session.NewMemoryStore(time.Hour)
	RegisterRoutes(e, middleware.NewRedisCache(config.CacheConfig{}, nil))
	RegisterAuth(e, handler.NewAuthHandler(config.Config{JWTSecret: secret}, nil, nil), secret)
	RegisterLayouts(e, handler.NewLayoutHandler(sessions, nil), secret)
	RegisterBooking(e, handler.NewBookingHandler(sessions, booking.SampleChart(), 1200, service.NopPublisher{Logger: e.Logger}), secret)
	return e
}

func token(t *testing.T, userID uint64, role string) string {
	t.Helper()
	at, err := utils.NewAccessToken(secret, userID, role, 5)
	require.NoError(t, err)
	return at.Token
}

func do(e *echo.Echo, method, path, tok, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if tok != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutes(t *testing.T) {
	e := newServer(t)

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/v1/nav", "", "").Code)

	rec := do(e, http.MethodGet, "/admin/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"home":"/"`)
}

func TestLayoutRoutesAreGated(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodPost, "/v1/layouts/drafts", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/signin", body["redirect"])
	assert.Equal(t, "/v1/layouts/drafts", body["return_to"])

	assert.Equal(t, http.StatusForbidden, do(e, http.MethodPost, "/v1/layouts/drafts", token(t, 2, model.RoleRider), "").Code)
	assert.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/v1/layouts/drafts", token(t, 1, model.RoleAdmin), "").Code)
}

func TestBookingFlow(t *testing.T) {
	e := newServer(t)
	tok := token(t, 3, model.RoleRider)

	rec := do(e, http.MethodPost, "/v1/bookings/sessions", tok, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	base := "/v1/bookings/sessions/" + created.ID

	rec = do(e, http.MethodPost, base+"/seats", tok, `{"row_index":2,"seat_index":2}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"This seat is not available"}`, rec.Body.String())

	rec = do(e, http.MethodPost, base+"/seats", tok, `{"row_index":1,"seat_index":0}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, base+"/checkout", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Booking confirmed for 1 seat(s). Total: NPR 1250")

	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, base, tok, "").Code)
}
