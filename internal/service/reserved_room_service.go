package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// ReservedRooms manages single reserved rooms outside the reservation
// forms, keeping the rooms' status in step.
type ReservedRooms struct {
	store ReservationStore
}

func NewReservedRooms(store ReservationStore) *ReservedRooms {
	return &ReservedRooms{store: store}
}

// Insert books rr.RoomID for rr.ReservationID and marks the room reserved.
// Booking a room the reservation already holds is a conflict.
func (s *ReservedRooms) Insert(ctx context.Context, rr *model.ReservedRoom) (uint64, error) {
	if rr.ReservationID == 0 || rr.RoomID == 0 {
		return 0, Invalidf("reservation_id and room_id are required")
	}
	err := s.store.InTx(ctx, func(tx ReservationTx) error {
		if _, err := tx.LockReservation(ctx, rr.ReservationID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return Invalidf("reservation %d does not exist", rr.ReservationID)
			}
			return err
		}
		if err := requireRoom(ctx, tx, rr.RoomID); err != nil {
			return err
		}
		if _, err := tx.FindActiveReservedRoom(ctx, rr.ReservationID, rr.RoomID); err == nil {
			return repository.ErrConflict
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := tx.CreateReservedRoom(ctx, rr); err != nil {
			return fmt.Errorf("reserve room %d: %w", rr.RoomID, err)
		}
		return tx.SetRoomStatus(ctx, rr.RoomID, model.BookedRoomStatus)
	})
	if err != nil {
		return 0, err
	}
	return rr.ID, nil
}

// Update moves reserved room id to roomID, freeing the old room.  It reports
// 0 when the reserved room does not exist; moving onto a room the
// reservation already holds is a conflict.
func (s *ReservedRooms) Update(ctx context.Context, id uint64, rr *model.ReservedRoom) (int64, error) {
	if rr.RoomID == 0 {
		return 0, Invalidf("room_id is required")
	}
	var n int64
	err := s.store.InTx(ctx, func(tx ReservationTx) error {
		cur, err := tx.GetReservedRoom(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return err
		}
		n = 1
		if cur.RoomID == rr.RoomID {
			return nil
		}
		if err := requireRoom(ctx, tx, rr.RoomID); err != nil {
			return err
		}
		if _, err := tx.FindActiveReservedRoom(ctx, cur.ReservationID, rr.RoomID); err == nil {
			return repository.ErrConflict
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := tx.MoveReservedRoom(ctx, id, rr.RoomID); err != nil {
			return fmt.Errorf("move reserved room: %w", err)
		}
		if err := tx.SetRoomStatus(ctx, cur.RoomID, model.RoomAvailable); err != nil {
			return fmt.Errorf("free room %d: %w", cur.RoomID, err)
		}
		return tx.SetRoomStatus(ctx, rr.RoomID, model.BookedRoomStatus)
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Delete soft deletes a reserved room and frees its room.
func (s *ReservedRooms) Delete(ctx context.Context, id uint64) (int64, error) {
	var n int64
	err := s.store.InTx(ctx, func(tx ReservationTx) error {
		cur, err := tx.GetReservedRoom(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return err
		}
		if n, err = tx.SoftDeleteReservedRoom(ctx, id); err != nil || n == 0 {
			return err
		}
		return tx.SetRoomStatus(ctx, cur.RoomID, model.RoomAvailable)
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func requireRoom(ctx context.Context, tx ReservationTx, roomID uint64) error {
	rm, err := tx.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Invalidf("room %d does not exist", roomID)
		}
		return err
	}
	if rm.Status == model.RoomMaintenance {
		return Invalidf("room %s is under maintenance", rm.RoomNumber)
	}
	return nil
}
