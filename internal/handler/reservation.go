package handler

import (
    "context"
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/middleware"
    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/repository"
    "github.com/iliyamo/hotel-reservation/internal/service"
)

// ReservationService is the reservation lifecycle (see service.Reservations).
type ReservationService interface {
    Insert(ctx context.Context, actor model.Actor, in service.InsertReservation) (uint64, error)
    Update(ctx context.Context, actor model.Actor, id uint64, in service.UpdateReservation) error
    Delete(ctx context.Context, id uint64) (int64, error)
    ChangeBooker(ctx context.Context, id, guestID uint64) (int64, error)
}

// ReservationReader serves the display forms of reservations.
type ReservationReader interface {
    List(ctx context.Context, q repository.ListQuery) ([]model.ReservationDetail, error)
    GetDetail(ctx context.Context, id uint64) (*model.ReservationDetail, error)
}

// HistoryReader reads the status audit trail.
type HistoryReader interface {
    ByReservation(ctx context.Context, reservationID uint64) ([]model.StatusHistory, error)
    List(ctx context.Context, q repository.ListQuery) ([]model.StatusHistory, error)
    ReservationStatuses(ctx context.Context) ([]model.Lookup, error)
}

// ReservationHandler exposes /v1/reservations and the status history.
type ReservationHandler struct {
    Svc     ReservationService
    Reads   ReservationReader
    History HistoryReader
}

func NewReservationHandler(svc ReservationService, reads ReservationReader, history HistoryReader) *ReservationHandler {
    if svc == nil || reads == nil || history == nil {
        panic("nil dependency passed to NewReservationHandler")
    }
    return &ReservationHandler{Svc: svc, Reads: reads, History: history}
}

// List: GET /v1/reservations?status=&guest_id=&search=&from=&to=&page=&limit=
func (h *ReservationHandler) List(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    out, err := h.Reads.List(ctx, listQuery(c))
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

// Get: GET /v1/reservations/:id
func (h *ReservationHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    d, err := h.Reads.GetDetail(ctx, id)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, d)
}

// Create: POST /v1/reservations.  Responds 1 with the new reservation's
// Location.
func (h *ReservationHandler) Create(c echo.Context) error {
    var in service.InsertReservation
    if err := bind(c, &in); err != nil {
        return fail(c, err)
    }
    actor, _ := middleware.Actor(c)
    ctx, cancel := reqCtx(c)
    defer cancel()
    id, err := h.Svc.Insert(ctx, actor, in)
    if err != nil {
        return fail(c, err)
    }
    c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/v1/reservations/%d", id))
    return c.JSON(http.StatusCreated, 1)
}

// Update: PUT /v1/reservations/:id
func (h *ReservationHandler) Update(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return fail(c, err)
    }
    var in service.UpdateReservation
    if err := bind(c, &in); err != nil {
        return fail(c, err)
    }
    actor, _ := middleware.Actor(c)
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Svc.Update(ctx, actor, id, in); err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, 1)
}

// Delete: DELETE /v1/reservations/:id.  0 when already deleted.
func (h *ReservationHandler) Delete(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    n, err := h.Svc.Delete(ctx, id)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, flag(n))
}

type changeBookerReq struct {
    GuestID uint64 `json:"guest_id"`
}

// ChangeBooker: POST /v1/reservations/:id/change-booker {"guest_id": n}
func (h *ReservationHandler) ChangeBooker(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return fail(c, err)
    }
    var req changeBookerReq
    if err := bind(c, &req); err != nil {
        return fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    n, err := h.Svc.ChangeBooker(ctx, id, req.GuestID)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, flag(n))
}

// StatusHistory: GET /v1/reservations/:id/status-history, oldest first.
func (h *ReservationHandler) StatusHistory(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if _, err := h.Reads.GetDetail(ctx, id); err != nil {
        return fail(c, err)
    }
    out, err := h.History.ByReservation(ctx, id)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

// AllStatusHistory: GET /v1/reservation-status-history, newest first.
func (h *ReservationHandler) AllStatusHistory(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    out, err := h.History.List(ctx, listQuery(c))
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

// Statuses: GET /v1/reservation-statuses
func (h *ReservationHandler) Statuses(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    out, err := h.History.ReservationStatuses(ctx)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, out)
}
