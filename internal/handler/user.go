package handler

import (
    "context"
    "fmt"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/middleware"
    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/repository"
    "github.com/iliyamo/hotel-reservation/internal/service"
)

// UserStore persists staff accounts; passwords are hashed with cost.
type UserStore interface {
    List(ctx context.Context, q repository.ListQuery) ([]model.User, error)
    Get(ctx context.Context, id uint64) (*model.User, error)
    Create(ctx context.Context, u *model.User, password string, cost int) (uint64, error)
    Update(ctx context.Context, id uint64, u *model.User, password string, cost int) (int64, error)
    SoftDelete(ctx context.Context, id uint64) (int64, error)
}

// SessionRevoker ends every session of a user.
type SessionRevoker interface {
    RevokeAll(ctx context.Context, userID uint64) error
}

// UserHandler is the ADMIN-only staff management.
type UserHandler struct {
    Users      UserStore
    Sessions   SessionRevoker
    BcryptCost int
}

func NewUserHandler(users UserStore, sessions SessionRevoker, cost int) *UserHandler {
    return &UserHandler{Users: users, Sessions: sessions, BcryptCost: cost}
}

type userReq struct {
    Username string `json:"username"`
    Email    string `json:"email"`
    Password string `json:"password"`
    Role     string `json:"role"`
}

func (r *userReq) user(requirePassword bool) (*model.User, error) {
    u := &model.User{
        Username: strings.TrimSpace(r.Username),
        Email:    strings.ToLower(strings.TrimSpace(r.Email)),
        Role:     strings.ToUpper(strings.TrimSpace(r.Role)),
    }
    if u.Username == "" || u.Email == "" {
        return nil, service.Invalidf("username and email are required")
    }
    if u.Role != model.RoleAdmin && u.Role != model.RoleStaff {
        return nil, service.Invalidf("role must be ADMIN or STAFF")
    }
    if requirePassword && len(r.Password) < 8 {
        return nil, service.Invalidf("password must be at least 8 characters")
    }
    if !requirePassword && r.Password != "" && len(r.Password) < 8 {
        return nil, service.Invalidf("password must be at least 8 characters")
    }
    return u, nil
}

func (h *UserHandler) List(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    out, err := h.Users.List(ctx, listQuery(c))
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    u, err := h.Users.Get(ctx, id)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Create(c echo.Context) error {
    var req userReq
    if err := bind(c, &req); err != nil {
        return fail(c, err)
    }
    u, err := req.user(true)
    if err != nil {
        return fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    id, err := h.Users.Create(ctx, u, req.Password, h.BcryptCost)
    if err != nil {
        return fail(c, err)
    }
    c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/v1/users/%d", id))
    return c.JSON(http.StatusCreated, 1)
}

func (h *UserHandler) Update(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return fail(c, err)
    }
    var req userReq
    if err := bind(c, &req); err != nil {
        return fail(c, err)
    }
    u, err := req.user(false)
    if err != nil {
        return fail(c, err)
    }
    if a, ok := middleware.Actor(c); ok && a.UserID == id && u.Role != a.Role {
        return fail(c, service.Invalidf("you cannot change your own role"))
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    n, err := h.Users.Update(ctx, id, u, req.Password, h.BcryptCost)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, flag(n))
}

// Delete soft deletes the account and revokes its refresh tokens.
func (h *UserHandler) Delete(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return fail(c, err)
    }
    if a, ok := middleware.Actor(c); ok && a.UserID == id {
        return fail(c, service.Invalidf("you cannot delete your own account"))
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    n, err := h.Users.SoftDelete(ctx, id)
    if err != nil {
        return fail(c, err)
    }
    if n > 0 {
        if err := h.Sessions.RevokeAll(ctx, id); err != nil {
            c.Logger().Warnf("revoke sessions of user %d: %v", id, err)
        }
    }
    return c.JSON(http.StatusOK, flag(n))
}
