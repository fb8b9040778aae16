package handler

import (
    "context"
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/repository"
)

// CRUDStore is the persistence contract of a plain admin resource.  T is
// the writable row, V the row as listed (often the same type).
type CRUDStore[T any, V any] interface {
    List(ctx context.Context, q repository.ListQuery) ([]V, error)
    Get(ctx context.Context, id uint64) (*V, error)
    Create(ctx context.Context, in *T) (uint64, error)
    Update(ctx context.Context, id uint64, in *T) (int64, error)
    SoftDelete(ctx context.Context, id uint64) (int64, error)
}

// Resource serves list/get/insert/update/delete for one table.  Mutations
// answer with a bare 1 or 0.
type Resource[T any, V any] struct {
    Path     string // collection path, used for Location headers
    Store    CRUDStore[T, V]
    Validate func(*T) error
}

// NewResource returns a Resource mounted at path.  validate may be nil.
func NewResource[T any, V any](path string, store CRUDStore[T, V], validate func(*T) error) *Resource[T, V] {
    return &Resource[T, V]{Path: path, Store: store, Validate: validate}
}

// Mount registers the five routes on g under r.Path.
func (r *Resource[T, V]) Mount(g *echo.Group) {
    g.GET(r.Path, r.List)
    g.GET(r.Path+"/:id", r.Get)
    g.POST(r.Path, r.Create)
    g.PUT(r.Path+"/:id", r.Update)
    g.DELETE(r.Path+"/:id", r.Delete)
}

func (r *Resource[T, V]) List(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    out, err := r.Store.List(ctx, listQuery(c))
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

func (r *Resource[T, V]) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    v, err := r.Store.Get(ctx, id)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, v)
}

func (r *Resource[T, V]) decode(c echo.Context) (*T, error) {
    in := new(T)
    if err := bind(c, in); err != nil {
        return nil, err
    }
    if r.Validate != nil {
        if err := r.Validate(in); err != nil {
            return nil, err
        }
    }
    return in, nil
}

func (r *Resource[T, V]) Create(c echo.Context) error {
    in, err := r.decode(c)
    if err != nil {
        return fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    id, err := r.Store.Create(ctx, in)
    if err != nil {
        return fail(c, err)
    }
    c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/v1%s/%d", r.Path, id))
    return c.JSON(http.StatusCreated, 1)
}

func (r *Resource[T, V]) Update(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return fail(c, err)
    }
    in, err := r.decode(c)
    if err != nil {
        return fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    n, err := r.Store.Update(ctx, id, in)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, flag(n))
}

func (r *Resource[T, V]) Delete(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    n, err := r.Store.SoftDelete(ctx, id)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, flag(n))
}
