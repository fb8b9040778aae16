package handler

import (
    "context"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/repository"
    "github.com/iliyamo/hotel-reservation/internal/service"
)

// RoomFinder answers availability and the room status lookup.
type RoomFinder interface {
    Available(ctx context.Context, q repository.AvailabilityQuery) ([]model.RoomListing, error)
    Statuses(ctx context.Context) ([]model.Lookup, error)
}

// RoomHandler serves the room endpoints that are not plain CRUD.
type RoomHandler struct {
    Rooms RoomFinder
}

func NewRoomHandler(rooms RoomFinder) *RoomHandler { return &RoomHandler{Rooms: rooms} }

// availabilityQuery reads check_in, check_out and room_type_id.
func availabilityQuery(c echo.Context) (repository.AvailabilityQuery, error) {
    q := repository.AvailabilityQuery{CheckIn: c.QueryParam("check_in"), CheckOut: c.QueryParam("check_out")}
    in, err1 := time.Parse("2006-01-02", q.CheckIn)
    out, err2 := time.Parse("2006-01-02", q.CheckOut)
    if err1 != nil || err2 != nil {
        return q, service.Invalidf("check_in and check_out must be dates in YYYY-MM-DD format")
    }
    if !out.After(in) {
        return q, service.Invalidf("check_out must be after check_in")
    }
    if v := c.QueryParam("room_type_id"); v != "" {
        n, err := strconv.ParseUint(v, 10, 64)
        if err != nil {
            return q, service.Invalidf("invalid room_type_id")
        }
        q.RoomTypeID = n
    }
    return q, nil
}

// Available: GET /v1/rooms/available?check_in=&check_out=[&room_type_id=]
func (h *RoomHandler) Available(c echo.Context) error {
    q, err := availabilityQuery(c)
    if err != nil {
        return fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    out, err := h.Rooms.Available(ctx, q)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

// Statuses: GET /v1/room-statuses
func (h *RoomHandler) Statuses(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    out, err := h.Rooms.Statuses(ctx)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, out)
}
