package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

var admin = model.Actor{UserID: 7, Role: model.RoleAdmin}

func u64(v uint64) *uint64 { return &v }
func u8(v uint8) *uint8    { return &v }
func str(v string) *string { return &v }

func setup(t *testing.T) (*Reservations, *memStore, *recorder) {
	t.Helper()
	st := newMemStore()
	st.addGuest(5, "Ana", "Lima")
	st.addGuest(6, "Bruno", "Costa")
	st.addRoom(10, "101", model.RoomAvailable)
	st.addRoom(11, "102", model.RoomAvailable)
	rec := &recorder{}
	svc := NewReservations(st, rec, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, st, rec
}

func insertOne(t *testing.T, svc *Reservations) uint64 {
	t.Helper()
	id, err := svc.Insert(context.Background(), admin, InsertReservation{
		GuestID:  5,
		CheckIn:  "2025-03-10",
		CheckOut: "2025-03-12",
		RoomID:   10,
	})
	require.NoError(t, err)
	return id
}

func TestInsertBooksRoomAndRecordsHistory(t *testing.T) {
	svc, st, rec := setup(t)

	id := insertOne(t, svc)

	res := st.reservations[id]
	assert.Equal(t, model.ReservationPending, res.Status)
	assert.Equal(t, model.RoomReserved, st.rooms[10].Status)
	require.Len(t, st.reserved, 1)
	assert.Equal(t, uint64(10), st.reserved[0].RoomID)
	require.Len(t, st.history, 1)
	assert.Equal(t, model.ReservationPending, st.history[0].Status)
	require.NotNil(t, st.history[0].ChangedByUserID)
	assert.Equal(t, uint64(7), *st.history[0].ChangedByUserID)

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, id, ev.ReservationID)
	assert.Equal(t, uint8(0), ev.PreviousStatus)
	assert.Equal(t, "pending", ev.StatusName)
	assert.Equal(t, []uint64{10}, ev.RoomIDs)
	assert.Equal(t, "reserved", ev.RoomStatus)
	assert.False(t, ev.OutOfOrder)
	assert.Equal(t, "2025-03-01T12:00:00Z", ev.ChangedAt)
}

func TestInsertRoomGroupsAddsCompanions(t *testing.T) {
	svc, st, _ := setup(t)

	id, err := svc.Insert(context.Background(), admin, InsertReservation{
		GuestID:  5,
		CheckIn:  "2025-03-10",
		CheckOut: "2025-03-11",
		Rooms: []RoomGroup{
			{RoomTypeID: 1, Quantity: 2, Units: []RoomUnit{
				{RoomID: 10, OccupantName: " ana lima "},
				{RoomID: 11, OccupantName: "Carla Souza"},
				{RoomID: 12, OccupantName: "Beyond Quantity"},
			}},
			{RoomTypeID: 2, Quantity: 0, Units: []RoomUnit{{RoomID: 11}}},
		},
	})
	require.NoError(t, err)

	active, _ := st.ActiveReservedRooms(context.Background(), id)
	assert.Len(t, active, 2)
	assert.Equal(t, []string{"Carla Souza"}, st.activeCompanions(id))
	assert.Equal(t, model.RoomReserved, st.rooms[11].Status)
}

func TestInsertBooksRepeatedRoomOnce(t *testing.T) {
	svc, st, rec := setup(t)

	id, err := svc.Insert(context.Background(), admin, InsertReservation{
		GuestID:  5,
		CheckIn:  "2025-03-10",
		CheckOut: "2025-03-11",
		Rooms: []RoomGroup{
			{RoomTypeID: 1, Quantity: 2, Units: []RoomUnit{
				{RoomID: 10, OccupantName: "Carla   Souza"},
				{RoomID: 10, OccupantName: "Duda Reis"},
			}},
		},
	})
	require.NoError(t, err)

	active, _ := st.ActiveReservedRooms(context.Background(), id)
	require.Len(t, active, 1)
	assert.Equal(t, uint64(10), active[0].RoomID)
	assert.Equal(t, []string{"Carla Souza"}, st.activeCompanions(id))
	assert.Equal(t, []uint64{10}, rec.events[0].RoomIDs)
}

func TestChangeBookerDropsCompanionWithIrregularBlanks(t *testing.T) {
	svc, st, _ := setup(t)
	ctx := context.Background()
	id, err := svc.Insert(ctx, admin, InsertReservation{
		GuestID: 5, CheckIn: "2025-03-10", CheckOut: "2025-03-11",
		Rooms: []RoomGroup{{RoomTypeID: 1, Quantity: 1, Units: []RoomUnit{{RoomID: 10, OccupantName: " bruno   COSTA "}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"bruno COSTA"}, st.activeCompanions(id))

	n, err := svc.ChangeBooker(ctx, id, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, []string{"Ana Lima"}, st.activeCompanions(id))
}

func TestInsertSkipsMissingRooms(t *testing.T) {
	svc, st, rec := setup(t)

	id, err := svc.Insert(context.Background(), admin, InsertReservation{
		GuestID: 5, CheckIn: "2025-03-10", CheckOut: "2025-03-11", RoomID: 99,
	})
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Empty(t, st.reserved)
	assert.Len(t, st.history, 1)
	assert.Equal(t, []uint64{}, rec.events[0].RoomIDs)
}

func TestInsertValidation(t *testing.T) {
	svc, st, rec := setup(t)
	ctx := context.Background()

	cases := []InsertReservation{
		{CheckIn: "2025-03-10", CheckOut: "2025-03-11"},
		{GuestID: 5, CheckIn: "10/03/2025", CheckOut: "2025-03-11"},
		{GuestID: 5, CheckIn: "2025-03-11", CheckOut: "2025-03-11"},
		{GuestID: 5, CheckIn: "2025-03-10", CheckOut: "2025-03-11", CheckInTime: str("25:99")},
		{GuestID: 404, CheckIn: "2025-03-10", CheckOut: "2025-03-11"},
	}
	for _, in := range cases {
		_, err := svc.Insert(ctx, admin, in)
		var ve *ValidationError
		assert.True(t, errors.As(err, &ve), "%+v: %v", in, err)
	}
	assert.Empty(t, st.reservations)
	assert.Empty(t, rec.events)
}

func TestInsertRollsBackOnFailure(t *testing.T) {
	svc, st, rec := setup(t)
	st.failOn = "AppendStatusHistory"

	_, err := svc.Insert(context.Background(), admin, InsertReservation{
		GuestID: 5, CheckIn: "2025-03-10", CheckOut: "2025-03-11", RoomID: 10,
	})
	require.ErrorIs(t, err, errBoom)
	assert.Empty(t, st.reservations)
	assert.Empty(t, st.reserved)
	assert.Equal(t, model.RoomAvailable, st.rooms[10].Status)
	assert.Empty(t, rec.events)
}

func TestUpdateStatusDerivesRoomStatus(t *testing.T) {
	svc, st, rec := setup(t)
	id := insertOne(t, svc)

	err := svc.Update(context.Background(), admin, id, UpdateReservation{StatusID: u8(3)})
	require.NoError(t, err)

	assert.Equal(t, model.ReservationCheckedIn, st.reservations[id].Status)
	assert.Equal(t, model.RoomOccupied, st.rooms[10].Status)
	require.Len(t, st.history, 2)
	assert.Equal(t, model.ReservationCheckedIn, st.history[1].Status)

	require.Len(t, rec.events, 2)
	ev := rec.events[1]
	assert.Equal(t, uint8(1), ev.PreviousStatus)
	assert.Equal(t, uint8(3), ev.Status)
	assert.Equal(t, "occupied", ev.RoomStatus)
	assert.True(t, ev.OutOfOrder)
}

func TestUpdateSameStatusAddsNoHistory(t *testing.T) {
	svc, st, rec := setup(t)
	id := insertOne(t, svc)

	err := svc.Update(context.Background(), admin, id, UpdateReservation{StatusID: u8(1), CheckOut: str("2025-03-14")})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-14", st.reservations[id].CheckOut)
	assert.Len(t, st.history, 1)
	assert.Len(t, rec.events, 1)
	// the derived status is applied even without a status change
	assert.Equal(t, model.RoomAvailable, st.rooms[10].Status)
}

func TestUpdateSwapsRoom(t *testing.T) {
	svc, st, _ := setup(t)
	id := insertOne(t, svc)

	require.NoError(t, svc.Update(context.Background(), admin, id, UpdateReservation{RoomID: u64(11), StatusID: u8(2)}))

	active, _ := st.ActiveReservedRooms(context.Background(), id)
	require.Len(t, active, 1)
	assert.Equal(t, uint64(11), active[0].RoomID)
	assert.Equal(t, model.RoomAvailable, st.rooms[10].Status)
	assert.Equal(t, model.RoomReserved, st.rooms[11].Status)

	// repeating the swap keeps a single reserved room
	require.NoError(t, svc.Update(context.Background(), admin, id, UpdateReservation{RoomID: u64(11)}))
	active, _ = st.ActiveReservedRooms(context.Background(), id)
	assert.Len(t, active, 1)
}

func TestUpdateGuestAndContact(t *testing.T) {
	svc, st, _ := setup(t)
	id := insertOne(t, svc)

	in := UpdateReservation{GuestID: u64(6)}
	in.Phone = str("+55 11 5555")
	require.NoError(t, svc.Update(context.Background(), admin, id, in))

	assert.Equal(t, uint64(6), st.reservations[id].GuestID)
	assert.Equal(t, "+55 11 5555", st.guests[6].Phone)
	assert.Empty(t, st.guests[5].Phone)
}

func TestUpdateErrors(t *testing.T) {
	svc, st, _ := setup(t)
	id := insertOne(t, svc)
	ctx := context.Background()

	err := svc.Update(ctx, admin, 999, UpdateReservation{StatusID: u8(2)})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	var ve *ValidationError
	err = svc.Update(ctx, admin, id, UpdateReservation{StatusID: u8(9)})
	assert.True(t, errors.As(err, &ve))

	err = svc.Update(ctx, admin, id, UpdateReservation{CheckOut: str("2025-03-01")})
	assert.True(t, errors.As(err, &ve))

	err = svc.Update(ctx, admin, id, UpdateReservation{RoomID: u64(404)})
	assert.True(t, errors.As(err, &ve))

	assert.Equal(t, "2025-03-12", st.reservations[id].CheckOut)
	assert.Equal(t, model.RoomReserved, st.rooms[10].Status)
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc, st, _ := setup(t)
	id := insertOne(t, svc)
	ctx := context.Background()

	n, err := svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.True(t, st.reservations[id].IsDeleted)
	assert.True(t, st.reserved[0].IsDeleted)
	assert.Equal(t, model.RoomAvailable, st.rooms[10].Status)

	n, err = svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.Delete(ctx, 12345)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestChangeBookerDemotesPreviousGuest(t *testing.T) {
	svc, st, _ := setup(t)
	ctx := context.Background()
	id, err := svc.Insert(ctx, admin, InsertReservation{
		GuestID: 5, CheckIn: "2025-03-10", CheckOut: "2025-03-11",
		Rooms: []RoomGroup{{RoomTypeID: 1, Quantity: 1, Units: []RoomUnit{{RoomID: 10, OccupantName: "Bruno Costa"}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bruno Costa"}, st.activeCompanions(id))

	n, err := svc.ChangeBooker(ctx, id, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, uint64(6), st.reservations[id].GuestID)
	assert.Equal(t, []string{"Ana Lima"}, st.activeCompanions(id))

	// switching back does not duplicate companions
	n, err = svc.ChangeBooker(ctx, id, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, []string{"Bruno Costa"}, st.activeCompanions(id))
}

func TestChangeBookerEdgeCases(t *testing.T) {
	svc, st, _ := setup(t)
	ctx := context.Background()
	id := insertOne(t, svc)

	n, err := svc.ChangeBooker(ctx, id, 5)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = svc.ChangeBooker(ctx, id, 404)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.ChangeBooker(ctx, 404, 6)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	noRooms, err := svc.Insert(ctx, admin, InsertReservation{GuestID: 5, CheckIn: "2025-04-01", CheckOut: "2025-04-02"})
	require.NoError(t, err)
	n, err = svc.ChangeBooker(ctx, noRooms, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, uint64(6), st.reservations[noRooms].GuestID)
	assert.Empty(t, st.activeCompanions(noRooms))
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	svc, st, rec := setup(t)
	rec.err = errors.New("broker down")

	id := insertOne(t, svc)
	assert.NotZero(t, id)
	assert.Len(t, st.history, 1)
}
