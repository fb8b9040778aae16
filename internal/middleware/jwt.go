package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/utils"
)

// Context keys set by JWTAuth.
const (
    ctxUserID = "user_id"
    ctxRole   = "role"
)

func bearer(c echo.Context) (string, bool) {
    auth := c.Request().Header.Get("Authorization")
    if !strings.HasPrefix(auth, "Bearer ") {
        return "", false
    }
    return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")), true
}

// authenticate validates raw and stores the user id (uint64) and role in
// the context.
func authenticate(c echo.Context, secret, raw string) bool {
    claims, err := utils.ParseAccessToken(secret, raw)
    if err != nil {
        return false
    }
    uid, err := claims.UserID()
    if err != nil {
        return false
    }
    c.Set(ctxUserID, uid)
    c.Set(ctxRole, claims.Role)
    return true
}

// JWTAuth rejects requests without a valid Bearer access token.  Handlers
// read the caller through Actor.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := bearer(c)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            if !authenticate(c, secret, raw) {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            return next(c)
        }
    }
}

// OptionalJWT authenticates the caller when a valid bearer token is present
// and lets the request through either way.
func OptionalJWT(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if raw, ok := bearer(c); ok {
                authenticate(c, secret, raw)
            }
            return next(c)
        }
    }
}
