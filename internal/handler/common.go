package handler // handler defines http handlers

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/repository"
    "github.com/iliyamo/hotel-reservation/internal/service"
)

// requestTimeout bounds the database work of one request.
const requestTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
    n, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || n == 0 {
        return 0, service.Invalidf("invalid %s", name)
    }
    return n, nil
}

// listQuery turns the query string into a ListQuery.  page and limit are
// pagination; every other parameter becomes a filter the repository may
// honour or ignore.
func listQuery(c echo.Context) repository.ListQuery {
    q := repository.ListQuery{Filters: map[string]string{}}
    for key, vals := range c.QueryParams() {
        if len(vals) == 0 {
            continue
        }
        v := strings.TrimSpace(vals[0])
        switch key {
        case "page":
            q.Page, _ = strconv.Atoi(v)
        case "limit":
            q.Limit, _ = strconv.Atoi(v)
        default:
            q.Filters[key] = v
        }
    }
    return q
}

// flag renders a rows-affected count as the bare 1/0 mutation result.
func flag(n int64) int {
    if n > 0 {
        return 1
    }
    return 0
}

// fail maps err onto the HTTP error taxonomy.  Unexpected errors are logged
// and answered with a generic message.
func fail(c echo.Context, err error) error {
    var ve *service.ValidationError
    switch {
    case errors.As(err, &ve):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Msg})
    case errors.Is(err, repository.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    case errors.Is(err, repository.ErrUsernameExists):
        return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already exists"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "already exists"})
    case errors.Is(err, repository.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

// bind decodes the body into v, answering malformed JSON with 400.
func bind(c echo.Context, v interface{}) error {
    if err := c.Bind(v); err != nil {
        return service.Invalidf("invalid body")
    }
    return nil
}
