package middleware

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// Actor returns the authenticated staff member stored by JWTAuth.  ok is
// false on routes without authentication.
func Actor(c echo.Context) (model.Actor, bool) {
    uid, _ := c.Get(ctxUserID).(uint64)
    role, _ := c.Get(ctxRole).(string)
    if uid == 0 {
        return model.Actor{}, false
    }
    return model.Actor{UserID: uid, Role: role}, true
}

// userKey identifies the caller for rate limiting; "anon" when nobody is
// logged in.
func userKey(c echo.Context) string {
    if a, ok := Actor(c); ok {
        return strconv.FormatUint(a.UserID, 10)
    }
    return "anon"
}
