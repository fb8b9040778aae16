package handler

import (
    "context"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/hotel-reservation/internal/middleware"
    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/repository"
    "github.com/iliyamo/hotel-reservation/internal/utils"
)

type userTable struct {
    rows     map[uint64]model.User
    password map[uint64]string
    nextID   uint64
}

func newUserTable() *userTable {
    return &userTable{rows: map[uint64]model.User{}, password: map[uint64]string{}, nextID: 10}
}

func (s *userTable) List(ctx context.Context, q repository.ListQuery) ([]model.User, error) {
    out := []model.User{}
    for _, u := range s.rows {
        out = append(out, u)
    }
    return out, nil
}

func (s *userTable) Get(ctx context.Context, id uint64) (*model.User, error) {
    u, ok := s.rows[id]
    if !ok {
        return nil, repository.ErrNotFound
    }
    return &u, nil
}

func (s *userTable) Create(ctx context.Context, u *model.User, password string, cost int) (uint64, error) {
    for _, ex := range s.rows {
        if ex.Username == u.Username {
            return 0, repository.ErrUsernameExists
        }
    }
    s.nextID++
    u.ID = s.nextID
    s.rows[u.ID] = *u
    s.password[u.ID] = password
    return u.ID, nil
}

func (s *userTable) Update(ctx context.Context, id uint64, u *model.User, password string, cost int) (int64, error) {
    if _, ok := s.rows[id]; !ok {
        return 0, repository.ErrNotFound
    }
    u.ID = id
    s.rows[id] = *u
    if password != "" {
        s.password[id] = password
    }
    return 1, nil
}

func (s *userTable) SoftDelete(ctx context.Context, id uint64) (int64, error) {
    if _, ok := s.rows[id]; !ok {
        return 0, nil
    }
    delete(s.rows, id)
    return 1, nil
}

func setupUserRouter() (*echo.Echo, *userTable, *MockSessions) {
    users := newUserTable()
    sessions := new(MockSessions)
    h := NewUserHandler(users, sessions, 4)
    e := echo.New()
    g := e.Group("/v1/users", middleware.JWTAuth(testSecret), middleware.RequireRole(model.RoleAdmin))
    g.GET("", h.List)
    g.GET("/:id", h.Get)
    g.POST("", h.Create)
    g.PUT("/:id", h.Update)
    g.DELETE("/:id", h.Delete)
    return e, users, sessions
}

func doAs(t *testing.T, e *echo.Echo, userID uint64, role, method, path, body string) *httptest.ResponseRecorder {
    t.Helper()
    tok, err := utils.NewAccessToken(testSecret, userID, role, 5)
    require.NoError(t, err)
    req := httptest.NewRequest(method, path, strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestUserCRUD(t *testing.T) {
    e, users, sessions := setupUserRouter()

    rec := doAs(t, e, 1, model.RoleAdmin, http.MethodPost, "/v1/users",
        `{"username":"maria","email":" Maria@Hotel.test ","password":"longenough","role":"staff"}`)
    require.Equal(t, http.StatusCreated, rec.Code)
    assert.Equal(t, "/v1/users/11", rec.Header().Get(echo.HeaderLocation))
    assert.Equal(t, "maria@hotel.test", users.rows[11].Email)
    assert.Equal(t, model.RoleStaff, users.rows[11].Role)

    rec = doAs(t, e, 1, model.RoleAdmin, http.MethodPost, "/v1/users",
        `{"username":"maria","email":"m2@hotel.test","password":"longenough","role":"STAFF"}`)
    assert.Equal(t, http.StatusConflict, rec.Code)

    rec = doAs(t, e, 1, model.RoleAdmin, http.MethodPut, "/v1/users/11",
        `{"username":"maria","email":"maria@hotel.test","role":"ADMIN"}`)
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, model.RoleAdmin, users.rows[11].Role)
    assert.Equal(t, "longenough", users.password[11])

    sessions.On("RevokeAll", uint64(11)).Return(nil).Once()
    rec = doAs(t, e, 1, model.RoleAdmin, http.MethodDelete, "/v1/users/11", "")
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "1", strings.TrimSpace(rec.Body.String()))

    rec = doAs(t, e, 1, model.RoleAdmin, http.MethodDelete, "/v1/users/11", "")
    assert.Equal(t, "0", strings.TrimSpace(rec.Body.String()))
    sessions.AssertExpectations(t)
}

func TestUserRules(t *testing.T) {
    e, users, _ := setupUserRouter()
    users.rows[1] = model.User{ID: 1, Username: "root", Email: "root@hotel.test", Role: model.RoleAdmin}

    rec := doAs(t, e, 7, model.RoleStaff, http.MethodGet, "/v1/users", "")
    assert.Equal(t, http.StatusForbidden, rec.Code)

    rec = doAs(t, e, 1, model.RoleAdmin, http.MethodPost, "/v1/users",
        `{"username":"x","email":"x@hotel.test","password":"short","role":"STAFF"}`)
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec = doAs(t, e, 1, model.RoleAdmin, http.MethodPost, "/v1/users",
        `{"username":"x","email":"x@hotel.test","password":"longenough","role":"GUEST"}`)
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec = doAs(t, e, 1, model.RoleAdmin, http.MethodPut, "/v1/users/1",
        `{"username":"root","email":"root@hotel.test","role":"STAFF"}`)
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec = doAs(t, e, 1, model.RoleAdmin, http.MethodDelete, "/v1/users/1", "")
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec = doAs(t, e, 1, model.RoleAdmin, http.MethodGet, "/v1/users/99", "")
    assert.Equal(t, http.StatusNotFound, rec.Code)
}
