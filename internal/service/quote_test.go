package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

type roomTypeMap map[uint64]model.RoomType

func (m roomTypeMap) Get(ctx context.Context, id uint64) (*model.RoomType, error) {
	rt, ok := m[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rt, nil
}

func TestQuote(t *testing.T) {
	q := NewQuotes(roomTypeMap{2: {ID: 2, Name: "Deluxe", PriceCents: 12345}})

	got, err := q.Quote(context.Background(), QuoteRequest{RoomTypeID: 2, Quantity: 3, CheckIn: "2025-12-31", CheckInTime: "22:30"})
	require.NoError(t, err)
	assert.Equal(t, "2025-12-31 22:30", got.CheckIn)
	assert.Equal(t, "2026-01-01 22:30", got.CheckOut)
	assert.Equal(t, uint64(37035), got.TotalCents)
	assert.Equal(t, uint64(18518), got.DownPaymentCents)
	assert.Equal(t, "Deluxe", got.RoomTypeName)
}

func TestQuoteDefaultsCheckInTime(t *testing.T) {
	q := NewQuotes(roomTypeMap{1: {ID: 1, PriceCents: 100}})

	got, err := q.Quote(context.Background(), QuoteRequest{RoomTypeID: 1, Quantity: 1, CheckIn: "2025-05-01"})
	require.NoError(t, err)
	assert.Equal(t, "2025-05-01 14:00", got.CheckIn)
	assert.Equal(t, "2025-05-02 14:00", got.CheckOut)
	assert.Equal(t, uint64(50), got.DownPaymentCents)
}

func TestQuoteValidation(t *testing.T) {
	q := NewQuotes(roomTypeMap{1: {ID: 1, PriceCents: 100}})
	cases := []QuoteRequest{
		{Quantity: 1, CheckIn: "2025-05-01"},
		{RoomTypeID: 1, Quantity: 0, CheckIn: "2025-05-01"},
		{RoomTypeID: 1, Quantity: 1, CheckIn: "May 1"},
		{RoomTypeID: 9, Quantity: 1, CheckIn: "2025-05-01"},
	}
	for _, c := range cases {
		_, err := q.Quote(context.Background(), c)
		var ve *ValidationError
		assert.True(t, errors.As(err, &ve), "%+v", c)
	}
}
