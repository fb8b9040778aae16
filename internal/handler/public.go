package handler

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/repository"
    "github.com/iliyamo/hotel-reservation/internal/service"
)

// RoomTypeLister lists room types with their features.
type RoomTypeLister interface {
    List(ctx context.Context, q repository.ListQuery) ([]model.RoomType, error)
}

// Quoter prices a booking request.
type Quoter interface {
    Quote(ctx context.Context, req service.QuoteRequest) (*service.Quote, error)
}

// PublicHandler serves the unauthenticated booking form endpoints.
type PublicHandler struct {
    Types  RoomTypeLister
    Rooms  RoomFinder
    Quotes Quoter
}

func NewPublicHandler(rt RoomTypeLister, rooms RoomFinder, quotes Quoter) *PublicHandler {
    return &PublicHandler{Types: rt, Rooms: rooms, Quotes: quotes}
}

// publicRoom hides internal status fields from guests.
type publicRoom struct {
    ID           uint64 `json:"id"`
    RoomNumber   string `json:"room_number"`
    RoomTypeID   uint64 `json:"room_type_id"`
    RoomTypeName string `json:"room_type_name"`
    PriceCents   uint32 `json:"price_cents"`
    Capacity     uint16 `json:"capacity"`
}

// RoomTypes: GET /v1/public/room-types
func (h *PublicHandler) RoomTypes(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    q := listQuery(c)
    q.Limit = repository.MaxLimit
    out, err := h.Types.List(ctx, q)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

// AvailableRooms: GET /v1/public/rooms/available?check_in=&check_out=[&room_type_id=]
func (h *PublicHandler) AvailableRooms(c echo.Context) error {
    q, err := availabilityQuery(c)
    if err != nil {
        return fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    rooms, err := h.Rooms.Available(ctx, q)
    if err != nil {
        return fail(c, err)
    }
    out := make([]publicRoom, 0, len(rooms))
    for _, r := range rooms {
        out = append(out, publicRoom{
            ID: r.ID, RoomNumber: r.RoomNumber, RoomTypeID: r.RoomTypeID,
            RoomTypeName: r.RoomTypeName, PriceCents: r.PriceCents, Capacity: r.Capacity,
        })
    }
    return c.JSON(http.StatusOK, out)
}

// Quote: POST /v1/public/booking/quote
func (h *PublicHandler) Quote(c echo.Context) error {
    var req service.QuoteRequest
    if err := bind(c, &req); err != nil {
        return fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    q, err := h.Quotes.Quote(ctx, req)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, q)
}
