package handler

import (
    "context"
    "database/sql"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/mock"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"

    "github.com/iliyamo/hotel-reservation/internal/config"
    "github.com/iliyamo/hotel-reservation/internal/middleware"
    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/repository"
    "github.com/iliyamo/hotel-reservation/internal/utils"
)

type MockAccounts struct {
    mock.Mock
}

func (m *MockAccounts) GetByLogin(ctx context.Context, login string) (model.User, error) {
    args := m.Called(login)
    return args.Get(0).(model.User), args.Error(1)
}

func (m *MockAccounts) GetByID(ctx context.Context, id uint64) (model.User, error) {
    args := m.Called(id)
    return args.Get(0).(model.User), args.Error(1)
}

type MockSessions struct {
    mock.Mock
}

func (m *MockSessions) Save(ctx context.Context, userID uint64, hash string, exp time.Time) error {
    return m.Called(userID, hash).Error(0)
}

func (m *MockSessions) Lookup(ctx context.Context, hash string) (*model.RefreshToken, error) {
    args := m.Called(hash)
    if args.Get(0) == nil {
        return nil, args.Error(1)
    }
    return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *MockSessions) Rotate(ctx context.Context, userID uint64, oldHash, newHash string, exp time.Time) error {
    return m.Called(userID, oldHash, newHash).Error(0)
}

func (m *MockSessions) Revoke(ctx context.Context, hash string) error {
    return m.Called(hash).Error(0)
}

func (m *MockSessions) RevokeAll(ctx context.Context, userID uint64) error {
    return m.Called(userID).Error(0)
}

func setupAuthRouter() (*echo.Echo, *MockAccounts, *MockSessions) {
    users, sessions := new(MockAccounts), new(MockSessions)
    cfg := config.Config{JWTSecret: testSecret, AccessTTLMin: 15, RefreshTTLDays: 7}
    h := NewAuthHandler(cfg, users, sessions)
    e := echo.New()
    e.POST("/v1/auth/login", h.Login)
    e.POST("/v1/auth/refresh", h.Refresh)
    e.POST("/v1/auth/logout", h.Logout, middleware.OptionalJWT(testSecret))
    e.GET("/v1/me", h.Me, middleware.JWTAuth(testSecret))
    return e, users, sessions
}

func staffUser(t *testing.T) model.User {
    t.Helper()
    hash, err := utils.HashPassword("correct horse", bcrypt.MinCost)
    require.NoError(t, err)
    return model.User{ID: 3, Username: "frontdesk", Email: "desk@hotel.test", PasswordHash: hash, Role: model.RoleStaff}
}

func TestLoginIssuesTokens(t *testing.T) {
    e, users, sessions := setupAuthRouter()
    users.On("GetByLogin", "frontdesk").Return(staffUser(t), nil).Once()
    sessions.On("Save", uint64(3), mock.AnythingOfType("string")).Return(nil).Once()

    rec := serve(e, http.MethodPost, "/v1/auth/login", `{"login":"frontdesk","password":"correct horse"}`)
    require.Equal(t, http.StatusOK, rec.Code)

    var resp authResp
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, "STAFF", resp.User.Role)
    assert.NotEmpty(t, resp.Refresh.Token)

    claims, err := utils.ParseAccessToken(testSecret, resp.Access.Token)
    require.NoError(t, err)
    uid, err := claims.UserID()
    require.NoError(t, err)
    assert.Equal(t, uint64(3), uid)
    sessions.AssertExpectations(t)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
    e, users, sessions := setupAuthRouter()
    users.On("GetByLogin", "frontdesk").Return(staffUser(t), nil).Once()

    rec := serve(e, http.MethodPost, "/v1/auth/login", `{"login":"frontdesk","password":"nope"}`)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    sessions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

    users.On("GetByLogin", "ghost").Return(model.User{}, sql.ErrNoRows).Once()
    rec = serve(e, http.MethodPost, "/v1/auth/login", `{"login":"ghost","password":"whatever1"}`)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshRotates(t *testing.T) {
    e, users, sessions := setupAuthRouter()
    oldHash := utils.HashRefreshRaw("old-raw")
    sessions.On("Lookup", oldHash).Return(&model.RefreshToken{UserID: 3}, nil).Once()
    users.On("GetByID", uint64(3)).Return(staffUser(t), nil).Once()
    sessions.On("Rotate", uint64(3), oldHash, mock.AnythingOfType("string")).Return(nil).Once()

    rec := serve(e, http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"old-raw"}`)
    assert.Equal(t, http.StatusOK, rec.Code)
    sessions.AssertExpectations(t)
}

func TestRefreshUnknownToken(t *testing.T) {
    e, _, sessions := setupAuthRouter()
    sessions.On("Lookup", mock.Anything).Return(nil, repository.ErrNotFound).Once()

    rec := serve(e, http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"stale"}`)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutWithBearerRevokesAll(t *testing.T) {
    e, _, sessions := setupAuthRouter()
    sessions.On("RevokeAll", uint64(3)).Return(nil).Once()
    tok, err := utils.NewAccessToken(testSecret, 3, model.RoleStaff, 5)
    require.NoError(t, err)

    req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", strings.NewReader(`{}`))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)

    assert.Equal(t, http.StatusNoContent, rec.Code)
    sessions.AssertExpectations(t)
}

func TestLogoutWithoutCredentials(t *testing.T) {
    e, _, _ := setupAuthRouter()
    rec := serve(e, http.MethodPost, "/v1/auth/logout", `{}`)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}
