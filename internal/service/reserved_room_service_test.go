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

func TestReservedRoomLifecycle(t *testing.T) {
	svc, st, _ := setup(t)
	ctx := context.Background()
	resID, err := svc.Insert(ctx, admin, InsertReservation{GuestID: 5, CheckIn: "2025-03-10", CheckOut: "2025-03-11"})
	require.NoError(t, err)

	rooms := NewReservedRooms(st)

	id, err := rooms.Insert(ctx, &model.ReservedRoom{ReservationID: resID, RoomID: 10})
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, model.RoomReserved, st.rooms[10].Status)

	_, err = rooms.Insert(ctx, &model.ReservedRoom{ReservationID: resID, RoomID: 10})
	assert.ErrorIs(t, err, repository.ErrConflict)

	n, err := rooms.Update(ctx, id, &model.ReservedRoom{RoomID: 11})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, model.RoomAvailable, st.rooms[10].Status)
	assert.Equal(t, model.RoomReserved, st.rooms[11].Status)

	n, err = rooms.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, model.RoomAvailable, st.rooms[11].Status)

	n, err = rooms.Delete(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = rooms.Update(ctx, id, &model.ReservedRoom{RoomID: 10})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReservedRoomInsertValidation(t *testing.T) {
	svc, st, _ := setup(t)
	ctx := context.Background()
	st.addRoom(12, "103", model.RoomMaintenance)
	resID := insertOne(t, svc)
	rooms := NewReservedRooms(st)

	var ve *ValidationError
	_, err := rooms.Insert(ctx, &model.ReservedRoom{ReservationID: resID})
	assert.True(t, errors.As(err, &ve))

	_, err = rooms.Insert(ctx, &model.ReservedRoom{ReservationID: 404, RoomID: 11})
	assert.True(t, errors.As(err, &ve))

	_, err = rooms.Insert(ctx, &model.ReservedRoom{ReservationID: resID, RoomID: 12})
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, model.RoomMaintenance, st.rooms[12].Status)
}

func TestReservedRoomUpdateOntoHeldRoomConflicts(t *testing.T) {
	svc, st, _ := setup(t)
	ctx := context.Background()
	resID, err := svc.Insert(ctx, admin, InsertReservation{GuestID: 5, CheckIn: "2025-03-10", CheckOut: "2025-03-11"})
	require.NoError(t, err)
	rooms := NewReservedRooms(st)

	first, err := rooms.Insert(ctx, &model.ReservedRoom{ReservationID: resID, RoomID: 10})
	require.NoError(t, err)
	second, err := rooms.Insert(ctx, &model.ReservedRoom{ReservationID: resID, RoomID: 11})
	require.NoError(t, err)

	n, err := rooms.Update(ctx, first, &model.ReservedRoom{RoomID: 11})
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.Zero(t, n)

	active, err := st.ActiveReservedRooms(ctx, resID)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, uint64(10), active[0].RoomID)
	assert.Equal(t, uint64(11), active[1].RoomID)

	n, err = rooms.Delete(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, model.RoomAvailable, st.rooms[10].Status)
	assert.Equal(t, model.RoomReserved, st.rooms[11].Status)

	held, err := st.GetReservedRoom(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), held.RoomID)
}
