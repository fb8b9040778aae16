package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ReservedRoomRepo persists the join rows between reservations and rooms.
type ReservedRoomRepo struct {
	q querier
}

func NewReservedRoomRepo(db *sql.DB) *ReservedRoomRepo { return &ReservedRoomRepo{q: db} }

const reservedRoomCols = `id, reservation_id, room_id, is_deleted, created_at, updated_at`

func scanReservedRoom(s rowScanner, rr *model.ReservedRoom) error {
	return s.Scan(&rr.ID, &rr.ReservationID, &rr.RoomID, &rr.IsDeleted, &rr.CreatedAt, &rr.UpdatedAt)
}

func (r *ReservedRoomRepo) collect(ctx context.Context, q string, args ...any) ([]model.ReservedRoom, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ReservedRoom, 0)
	for rows.Next() {
		var rr model.ReservedRoom
		if err := scanReservedRoom(rows, &rr); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// List returns live reserved rooms.  Filters: reservation_id, room_id.
func (r *ReservedRoomRepo) List(ctx context.Context, lq ListQuery) ([]model.ReservedRoom, error) {
	f := (&Filter{}).Where("is_deleted = 0").Allowed(lq, map[string]string{
		"reservation_id": "reservation_id",
		"room_id":        "room_id",
	})
	tail, args := f.Page(lq, "id")
	return r.collect(ctx, `SELECT `+reservedRoomCols+` FROM reserved_rooms`+tail, args...)
}

// Get returns a live reserved room or ErrNotFound.
func (r *ReservedRoomRepo) Get(ctx context.Context, id uint64) (*model.ReservedRoom, error) {
	var rr model.ReservedRoom
	err := scanReservedRoom(r.q.QueryRowContext(ctx,
		`SELECT `+reservedRoomCols+` FROM reserved_rooms WHERE id = ? AND is_deleted = 0`, id), &rr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rr, nil
}

// ActiveByReservation returns the live reserved rooms of a reservation in
// insertion order.
func (r *ReservedRoomRepo) ActiveByReservation(ctx context.Context, reservationID uint64) ([]model.ReservedRoom, error) {
	return r.collect(ctx, `SELECT `+reservedRoomCols+` FROM reserved_rooms
	                       WHERE reservation_id = ? AND is_deleted = 0 ORDER BY id`, reservationID)
}

// FindActive returns the live row linking reservationID and roomID, or
// ErrNotFound.
func (r *ReservedRoomRepo) FindActive(ctx context.Context, reservationID, roomID uint64) (*model.ReservedRoom, error) {
	var rr model.ReservedRoom
	err := scanReservedRoom(r.q.QueryRowContext(ctx,
		`SELECT `+reservedRoomCols+` FROM reserved_rooms
		 WHERE reservation_id = ? AND room_id = ? AND is_deleted = 0 ORDER BY id LIMIT 1`,
		reservationID, roomID), &rr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rr, nil
}

// Create inserts a reserved room and populates its ID.
func (r *ReservedRoomRepo) Create(ctx context.Context, rr *model.ReservedRoom) error {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO reserved_rooms (reservation_id, room_id) VALUES (?, ?)`, rr.ReservationID, rr.RoomID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rr.ID = uint64(id)
	return nil
}

// SetRoom points a live reserved room at another room.
func (r *ReservedRoomRepo) SetRoom(ctx context.Context, id, roomID uint64) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE reserved_rooms SET room_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_deleted = 0`,
		roomID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete flags one reserved room as deleted.
func (r *ReservedRoomRepo) SoftDelete(ctx context.Context, id uint64) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE reserved_rooms SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_deleted = 0`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SoftDeleteByReservation flags every live reserved room of a reservation as
// deleted and returns the ids of the rooms that were freed.
func (r *ReservedRoomRepo) SoftDeleteByReservation(ctx context.Context, reservationID uint64) ([]uint64, error) {
	active, err := r.ActiveByReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}
	if _, err := r.q.ExecContext(ctx,
		`UPDATE reserved_rooms SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP
		 WHERE reservation_id = ? AND is_deleted = 0`, reservationID); err != nil {
		return nil, err
	}
	roomIDs := make([]uint64, 0, len(active))
	for _, rr := range active {
		roomIDs = append(roomIDs, rr.RoomID)
	}
	return roomIDs, nil
}
