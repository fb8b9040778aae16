package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// StayLength is the fixed length of a stay booked through the public form.
const StayLength = 24 * time.Hour

// DefaultCheckInTime applies when the booking form omits an arrival time.
const DefaultCheckInTime = "14:00"

// RoomTypeGetter loads a live room type.
type RoomTypeGetter interface {
	Get(ctx context.Context, id uint64) (*model.RoomType, error)
}

// QuoteRequest is the public booking form's stay selection.
type QuoteRequest struct {
	RoomTypeID  uint64 `json:"room_type_id"`
	Quantity    int    `json:"quantity"`
	CheckIn     string `json:"check_in"`
	CheckInTime string `json:"check_in_time"`
}

// Quote is the price of a public booking; nothing is persisted.
type Quote struct {
	RoomTypeID       uint64 `json:"room_type_id"`
	RoomTypeName     string `json:"room_type_name"`
	Quantity         int    `json:"quantity"`
	CheckIn          string `json:"check_in"`
	CheckOut         string `json:"check_out"`
	UnitPriceCents   uint64 `json:"unit_price_cents"`
	TotalCents       uint64 `json:"total_cents"`
	DownPaymentCents uint64 `json:"down_payment_cents"`
}

// Quotes prices public booking requests.
type Quotes struct {
	roomTypes RoomTypeGetter
}

func NewQuotes(roomTypes RoomTypeGetter) *Quotes { return &Quotes{roomTypes: roomTypes} }

// Quote checks out 24 hours after check-in and asks half of the total,
// rounded up to the cent, as down payment.
func (s *Quotes) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if req.RoomTypeID == 0 {
		return nil, Invalidf("room_type_id is required")
	}
	if req.Quantity < 1 {
		return nil, Invalidf("quantity must be at least 1")
	}
	at := strings.TrimSpace(req.CheckInTime)
	if at == "" {
		at = DefaultCheckInTime
	}
	in, err := time.Parse(dateLayout+" "+timeLayout, strings.TrimSpace(req.CheckIn)+" "+at)
	if err != nil {
		return nil, Invalidf("check_in must be YYYY-MM-DD and check_in_time HH:MM")
	}
	rt, err := s.roomTypes.Get(ctx, req.RoomTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Invalidf("room type %d does not exist", req.RoomTypeID)
		}
		return nil, err
	}
	total := uint64(rt.PriceCents) * uint64(req.Quantity)
	return &Quote{
		RoomTypeID:       rt.ID,
		RoomTypeName:     rt.Name,
		Quantity:         req.Quantity,
		CheckIn:          in.Format(dateLayout + " " + timeLayout),
		CheckOut:         in.Add(StayLength).Format(dateLayout + " " + timeLayout),
		UnitPriceCents:   uint64(rt.PriceCents),
		TotalCents:       total,
		DownPaymentCents: (total + 1) / 2,
	}, nil
}
