package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Tx exposes the statements of the reservation lifecycle bound to a single
// database transaction.  It is only valid inside the callback given to
// Store.InTx.
type Tx struct {
	reservations  *ReservationRepo
	reservedRooms *ReservedRoomRepo
	companions    *CompanionRepo
	rooms         *RoomRepo
	guests        *GuestRepo
	history       *StatusHistoryRepo
}

func newTx(tx *sql.Tx) *Tx {
	return &Tx{
		reservations:  &ReservationRepo{q: tx},
		reservedRooms: &ReservedRoomRepo{q: tx},
		companions:    &CompanionRepo{q: tx},
		rooms:         &RoomRepo{q: tx},
		guests:        &GuestRepo{q: tx},
		history:       &StatusHistoryRepo{q: tx},
	}
}

func (t *Tx) GetGuest(ctx context.Context, id uint64) (*model.Guest, error) {
	return t.guests.Get(ctx, id)
}

func (t *Tx) UpdateGuestContact(ctx context.Context, id uint64, c model.GuestContact) error {
	return t.guests.UpdateContact(ctx, id, c)
}

// LockReservation loads a live reservation and locks its row until the
// transaction ends.
func (t *Tx) LockReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	return t.reservations.get(ctx, id, true)
}

func (t *Tx) CreateReservation(ctx context.Context, r *model.Reservation) error {
	return t.reservations.Create(ctx, r)
}

func (t *Tx) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	return t.reservations.Update(ctx, r)
}

func (t *Tx) SoftDeleteReservation(ctx context.Context, id uint64) (int64, error) {
	return t.reservations.SoftDelete(ctx, id)
}

func (t *Tx) GetRoom(ctx context.Context, id uint64) (*model.RoomListing, error) {
	return t.rooms.Get(ctx, id)
}

func (t *Tx) SetRoomStatus(ctx context.Context, roomID uint64, s model.RoomStatus) error {
	return t.rooms.SetStatus(ctx, roomID, s)
}

func (t *Tx) ActiveReservedRooms(ctx context.Context, reservationID uint64) ([]model.ReservedRoom, error) {
	return t.reservedRooms.ActiveByReservation(ctx, reservationID)
}

func (t *Tx) FindActiveReservedRoom(ctx context.Context, reservationID, roomID uint64) (*model.ReservedRoom, error) {
	return t.reservedRooms.FindActive(ctx, reservationID, roomID)
}

func (t *Tx) GetReservedRoom(ctx context.Context, id uint64) (*model.ReservedRoom, error) {
	return t.reservedRooms.Get(ctx, id)
}

func (t *Tx) CreateReservedRoom(ctx context.Context, rr *model.ReservedRoom) error {
	return t.reservedRooms.Create(ctx, rr)
}

func (t *Tx) MoveReservedRoom(ctx context.Context, id, roomID uint64) error {
	return t.reservedRooms.SetRoom(ctx, id, roomID)
}

func (t *Tx) SoftDeleteReservedRoom(ctx context.Context, id uint64) (int64, error) {
	return t.reservedRooms.SoftDelete(ctx, id)
}

func (t *Tx) SoftDeleteReservedRoomsByReservation(ctx context.Context, reservationID uint64) ([]uint64, error) {
	return t.reservedRooms.SoftDeleteByReservation(ctx, reservationID)
}

func (t *Tx) CompanionsByReservation(ctx context.Context, reservationID uint64) ([]model.Companion, error) {
	return t.companions.ByReservation(ctx, reservationID)
}

func (t *Tx) CreateCompanion(ctx context.Context, c *model.Companion) error {
	_, err := t.companions.Create(ctx, c)
	return err
}

func (t *Tx) SoftDeleteCompanionsByName(ctx context.Context, reservationID uint64, fullName string) (int64, error) {
	return t.companions.SoftDeleteByName(ctx, reservationID, fullName)
}

func (t *Tx) AppendStatusHistory(ctx context.Context, h *model.StatusHistory) error {
	return t.history.Append(ctx, h)
}
