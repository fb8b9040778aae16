package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/hotel-reservation/internal/config"
    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/utils"
)

const secret = "middleware-secret"

func whoami(c echo.Context) error {
    a, ok := Actor(c)
    if !ok {
        return c.String(http.StatusOK, "anon")
    }
    return c.JSON(http.StatusOK, a)
}

func request(t *testing.T, e *echo.Echo, path string, userID uint64, role string) *httptest.ResponseRecorder {
    t.Helper()
    req := httptest.NewRequest(http.MethodGet, path, nil)
    if userID != 0 {
        tok, err := utils.NewAccessToken(secret, userID, role, 5)
        require.NoError(t, err)
        req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestJWTAuth(t *testing.T) {
    e := echo.New()
    e.GET("/me", whoami, JWTAuth(secret))

    rec := request(t, e, "/me", 0, "")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)

    rec = request(t, e, "/me", 9, model.RoleAdmin)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"UserID":9,"Role":"ADMIN"}`, rec.Body.String())

    req := httptest.NewRequest(http.MethodGet, "/me", nil)
    req.Header.Set(echo.HeaderAuthorization, "Bearer not.a.token")
    rec = httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsForeignSecret(t *testing.T) {
    e := echo.New()
    e.GET("/me", whoami, JWTAuth("another-secret"))

    rec := request(t, e, "/me", 9, model.RoleAdmin)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalJWT(t *testing.T) {
    e := echo.New()
    e.GET("/who", whoami, OptionalJWT(secret))

    rec := request(t, e, "/who", 0, "")
    assert.Equal(t, "anon", rec.Body.String())

    rec = request(t, e, "/who", 4, model.RoleStaff)
    assert.JSONEq(t, `{"UserID":4,"Role":"STAFF"}`, rec.Body.String())
}

func TestRequireRole(t *testing.T) {
    e := echo.New()
    e.GET("/admin", whoami, JWTAuth(secret), RequireRole(model.RoleAdmin))
    e.GET("/open", whoami, RequireRole(model.RoleAdmin))

    assert.Equal(t, http.StatusForbidden, request(t, e, "/admin", 4, model.RoleStaff).Code)
    assert.Equal(t, http.StatusOK, request(t, e, "/admin", 1, model.RoleAdmin).Code)
    assert.Equal(t, http.StatusUnauthorized, request(t, e, "/open", 0, "").Code)
}

func TestMemoryRateLimit(t *testing.T) {
    cfg := config.RateLimitConfig{
        Enabled:        true,
        Capacity:       2,
        RefillTokens:   1,
        RefillInterval: time.Hour,
        TTL:            time.Hour,
        KeyStrategy:    "ip",
        Prefix:         "test:rl",
    }
    e := echo.New()
    e.GET("/q", whoami, NewTokenBucket(cfg, nil))

    assert.Equal(t, http.StatusOK, request(t, e, "/q", 0, "").Code)
    assert.Equal(t, http.StatusOK, request(t, e, "/q", 0, "").Code)
    rec := request(t, e, "/q", 0, "")
    assert.Equal(t, http.StatusTooManyRequests, rec.Code)
    assert.NotEmpty(t, rec.Header().Get("Retry-After"))
    assert.Contains(t, rec.Body.String(), "rate limit exceeded")
}

func TestDisabledRateLimitPassesThrough(t *testing.T) {
    e := echo.New()
    e.GET("/q", whoami, NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil))
    for i := 0; i < 5; i++ {
        assert.Equal(t, http.StatusOK, request(t, e, "/q", 0, "").Code)
    }
}

func TestBuildRateKey(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/public/rooms/available", nil)
    req.RemoteAddr = "10.0.0.1:1234"
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/v1/public/rooms/available")

    key := buildRateKey(config.RateLimitConfig{Prefix: "p", KeyStrategy: "ip_route"}, c)
    assert.Equal(t, "p:ip:10.0.0.1:route:GET /v1/public/rooms/available", key)

    key = buildRateKey(config.RateLimitConfig{Prefix: "p", KeyStrategy: "user"}, c)
    assert.Equal(t, "p:user:anon", key)
}
