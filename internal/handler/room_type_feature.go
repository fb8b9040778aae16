package handler

import (
    "context"
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/service"
)

// FeatureLinks manages the room type ↔ feature join rows.
type FeatureLinks interface {
    ByRoomType(ctx context.Context, roomTypeID uint64) ([]model.Feature, error)
    Create(ctx context.Context, l *model.RoomTypeFeature) (uint64, error)
    SoftDelete(ctx context.Context, id uint64) (int64, error)
}

type RoomTypeFeatureHandler struct {
    Links FeatureLinks
}

func NewRoomTypeFeatureHandler(links FeatureLinks) *RoomTypeFeatureHandler {
    return &RoomTypeFeatureHandler{Links: links}
}

// ByRoomType: GET /v1/room-types/:id/features
func (h *RoomTypeFeatureHandler) ByRoomType(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    out, err := h.Links.ByRoomType(ctx, id)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

// Create: POST /v1/room-type-features {"room_type_id": n, "feature_id": m}
func (h *RoomTypeFeatureHandler) Create(c echo.Context) error {
    var l model.RoomTypeFeature
    if err := bind(c, &l); err != nil {
        return fail(c, err)
    }
    if l.RoomTypeID == 0 || l.FeatureID == 0 {
        return fail(c, service.Invalidf("room_type_id and feature_id are required"))
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    id, err := h.Links.Create(ctx, &l)
    if err != nil {
        return fail(c, err)
    }
    c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/v1/room-type-features/%d", id))
    return c.JSON(http.StatusCreated, 1)
}

// Delete: DELETE /v1/room-type-features/:id
func (h *RoomTypeFeatureHandler) Delete(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    n, err := h.Links.SoftDelete(ctx, id)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, flag(n))
}
