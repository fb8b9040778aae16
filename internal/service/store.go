package service

import (
	"context"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// ReservationTx is the set of statements the reservation lifecycle runs
// inside one transaction.  *repository.Tx implements it.
type ReservationTx interface {
	GetGuest(ctx context.Context, id uint64) (*model.Guest, error)
	UpdateGuestContact(ctx context.Context, id uint64, c model.GuestContact) error

	LockReservation(ctx context.Context, id uint64) (*model.Reservation, error)
	CreateReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservation(ctx context.Context, r *model.Reservation) error
	SoftDeleteReservation(ctx context.Context, id uint64) (int64, error)

	GetRoom(ctx context.Context, id uint64) (*model.RoomListing, error)
	SetRoomStatus(ctx context.Context, roomID uint64, s model.RoomStatus) error

	ActiveReservedRooms(ctx context.Context, reservationID uint64) ([]model.ReservedRoom, error)
	FindActiveReservedRoom(ctx context.Context, reservationID, roomID uint64) (*model.ReservedRoom, error)
	GetReservedRoom(ctx context.Context, id uint64) (*model.ReservedRoom, error)
	CreateReservedRoom(ctx context.Context, rr *model.ReservedRoom) error
	MoveReservedRoom(ctx context.Context, id, roomID uint64) error
	SoftDeleteReservedRoom(ctx context.Context, id uint64) (int64, error)
	SoftDeleteReservedRoomsByReservation(ctx context.Context, reservationID uint64) ([]uint64, error)

	CompanionsByReservation(ctx context.Context, reservationID uint64) ([]model.Companion, error)
	CreateCompanion(ctx context.Context, c *model.Companion) error
	SoftDeleteCompanionsByName(ctx context.Context, reservationID uint64, fullName string) (int64, error)

	AppendStatusHistory(ctx context.Context, h *model.StatusHistory) error
}

// ReservationStore opens transactions over the reservation tables.
type ReservationStore interface {
	InTx(ctx context.Context, fn func(tx ReservationTx) error) error
}

// EventPublisher delivers committed status changes to the broker.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, ev queue.ReservationStatusChangedEvent) error
}

type sqlStore struct {
	st *repository.Store
}

// NewSQLStore adapts a repository.Store to ReservationStore.
func NewSQLStore(st *repository.Store) ReservationStore { return sqlStore{st: st} }

func (s sqlStore) InTx(ctx context.Context, fn func(tx ReservationTx) error) error {
	return s.st.InTx(ctx, func(tx *repository.Tx) error { return fn(tx) })
}
