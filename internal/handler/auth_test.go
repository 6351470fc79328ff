package handler

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/bus-ticketing/internal/config"
	"github.com/iliyamo/bus-ticketing/internal/model"
	"github.com/iliyamo/bus-ticketing/internal/repository"
	"github.com/iliyamo/bus-ticketing/internal/utils"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[uint64]model.User
}

func (f *fakeUsers) Create(_ context.Context, email, password, role string, cost int) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	id := uint64(len(f.users) + 1)
	f.users[id] = model.User{ID: id, Email: email, PasswordHash: hash, Role: role, IsActive: true}
	return id, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

type fakeTokens struct {
	mu     sync.Mutex
	owners map[string]uint64
}

func (f *fakeTokens) StoreRefresh(_ context.Context, userID uint64, hash string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.owners[hash] = userID
	return nil
}

func (f *fakeTokens) ValidateRefresh(_ context.Context, hash string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.owners[hash]
	if !ok {
		return 0, repository.ErrTokenInvalid
	}
	return id, nil
}

func (f *fakeTokens) RevokeByHash(_ context.Context, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.owners[hash]; !ok {
		return repository.ErrTokenInvalid
	}
	delete(f.owners, hash)
	return nil
}

func newAuthHandler() *AuthHandler {
	cfg := config.Config{JWTSecret: "s", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: bcrypt.MinCost}
	return NewAuthHandler(cfg, &fakeUsers{users: map[uint64]model.User{}}, &fakeTokens{owners: map[string]uint64{}})
}

func TestRegisterAndLogin(t *testing.T) {
	h := newAuthHandler()

	rec, err := call(t, h.Register, http.MethodPost, `{"email":"Admin@Example.com","password":"password1","role":"admin"}`, 0, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code)
	var reg authResp
	decodeBody(t, rec, &reg)
	assert.Equal(t, "admin@example.com", reg.User.Email)
	assert.Equal(t, model.RoleAdmin, reg.User.Role)

	id, err := utils.ParseAccessToken("s", reg.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, utils.Identity{UserID: reg.User.ID, Role: model.RoleAdmin}, id)

	rec, err = call(t, h.Register, http.MethodPost, `{"email":"admin@example.com","password":"password1"}`, 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, err = call(t, h.Login, http.MethodPost, `{"email":"admin@example.com","password":"wrong-pass"}`, 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, err = call(t, h.Login, http.MethodPost, `{"email":"admin@example.com","password":"password1"}`, 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterDefaultsToRider(t *testing.T) {
	h := newAuthHandler()
	rec, err := call(t, h.Register, http.MethodPost, `{"email":"r@example.com","password":"password1","role":"OWNER"}`, 0, "")
	require.NoError(t, err)
	var reg authResp
	decodeBody(t, rec, &reg)
	assert.Equal(t, model.RoleRider, reg.User.Role)
}

func TestRegisterValidation(t *testing.T) {
	h := newAuthHandler()
	_, err := call(t, h.Register, http.MethodPost, `{"email":"not-an-email","password":"password1"}`, 0, "")
	assertHTTPError(t, err, http.StatusBadRequest)
	_, err = call(t, h.Register, http.MethodPost, `{"email":"a@b.co","password":"short"}`, 0, "")
	assertHTTPError(t, err, http.StatusBadRequest)
}

func TestRefreshRotatesAndLogoutRevokes(t *testing.T) {
	h := newAuthHandler()
	rec, err := call(t, h.Register, http.MethodPost, `{"email":"r@example.com","password":"password1"}`, 0, "")
	require.NoError(t, err)
	var reg authResp
	decodeBody(t, rec, &reg)

	body := `{"refresh_token":"` + reg.Refresh.Token + `"}`
	rec, err = call(t, h.Refresh, http.MethodPost, body, 0, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	var next authResp
	decodeBody(t, rec, &next)
	assert.NotEqual(t, reg.Refresh.Token, next.Refresh.Token)

	rec, err = call(t, h.Refresh, http.MethodPost, body, 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, err = call(t, h.Logout, http.MethodPost, `{"refresh_token":"`+next.Refresh.Token+`"}`, 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, err = call(t, h.Logout, http.MethodPost, `{"refresh_token":"`+next.Refresh.Token+`"}`, 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	h := newAuthHandler()
	rec, err := call(t, h.Register, http.MethodPost, `{"email":"r@example.com","password":"password1"}`, 0, "")
	require.NoError(t, err)
	var reg authResp
	decodeBody(t, rec, &reg)

	rec, err = call(t, h.Me, http.MethodGet, "", reg.User.ID, reg.User.Role)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"email":"r@example.com","role":"RIDER"}`, rec.Body.String())
}
