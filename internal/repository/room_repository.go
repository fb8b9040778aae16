package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomRepo encapsulates all database queries related to rooms and their
// status.
type RoomRepo struct {
	q querier
}

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{q: db} }

const roomListingCols = `rm.id, rm.room_number, rm.room_type_id, rm.room_status_id, rm.is_deleted, rm.created_at, rm.updated_at,
    rt.name, rt.price_cents, rt.capacity, st.name`

const roomListingFrom = ` FROM rooms rm
    JOIN room_types rt ON rt.id = rm.room_type_id
    JOIN room_statuses st ON st.id = rm.room_status_id`

func scanRoomListing(s rowScanner, l *model.RoomListing) error {
	return s.Scan(&l.ID, &l.RoomNumber, &l.RoomTypeID, &l.Status, &l.IsDeleted, &l.CreatedAt, &l.UpdatedAt,
		&l.RoomTypeName, &l.PriceCents, &l.Capacity, &l.StatusName)
}

func (r *RoomRepo) collect(ctx context.Context, q string, args ...any) ([]model.RoomListing, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RoomListing, 0)
	for rows.Next() {
		var l model.RoomListing
		if err := scanRoomListing(rows, &l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// List returns live rooms joined with type and status.  Filters:
// room_type_id, room_status_id, search (room number substring).
func (r *RoomRepo) List(ctx context.Context, lq ListQuery) ([]model.RoomListing, error) {
	f := (&Filter{}).Where("rm.is_deleted = 0").Allowed(lq, map[string]string{
		"room_type_id":   "rm.room_type_id",
		"room_status_id": "rm.room_status_id",
	})
	if s := lq.Get("search"); s != "" {
		f.Like("rm.room_number", s)
	}
	tail, args := f.Page(lq, "rm.room_number")
	return r.collect(ctx, `SELECT `+roomListingCols+roomListingFrom+tail, args...)
}

// Get returns a live room or ErrNotFound.
func (r *RoomRepo) Get(ctx context.Context, id uint64) (*model.RoomListing, error) {
	var l model.RoomListing
	err := scanRoomListing(r.q.QueryRowContext(ctx,
		`SELECT `+roomListingCols+roomListingFrom+` WHERE rm.id = ? AND rm.is_deleted = 0`, id), &l)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Create inserts a room.  A zero status defaults to available.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) (uint64, error) {
	if rm.Status == 0 {
		rm.Status = model.RoomAvailable
	}
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO rooms (room_number, room_type_id, room_status_id) VALUES (?, ?, ?)`,
		rm.RoomNumber, rm.RoomTypeID, rm.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	rm.ID = uint64(id)
	return rm.ID, nil
}

// Update rewrites number and type of a live room, and its status when set.
func (r *RoomRepo) Update(ctx context.Context, id uint64, rm *model.Room) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE rooms SET room_number = ?, room_type_id = ?,
		        room_status_id = IF(? = 0, room_status_id, ?), updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_deleted = 0`,
		rm.RoomNumber, rm.RoomTypeID, rm.Status, rm.Status, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SoftDelete flags a room as deleted.
func (r *RoomRepo) SoftDelete(ctx context.Context, id uint64) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE rooms SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_deleted = 0`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetStatus writes the derived status of a room.
func (r *RoomRepo) SetStatus(ctx context.Context, id uint64, s model.RoomStatus) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE rooms SET room_status_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, s, id)
	return err
}

// Statuses returns the room_statuses lookup table.
func (r *RoomRepo) Statuses(ctx context.Context) ([]model.Lookup, error) {
	return lookup(ctx, r.q, `SELECT id, name FROM room_statuses ORDER BY id`)
}

// AvailabilityQuery describes a stay for which free rooms are requested.
// CheckIn and CheckOut are YYYY-MM-DD; the range is half-open.
type AvailabilityQuery struct {
	CheckIn    string
	CheckOut   string
	RoomTypeID uint64
}

// Available returns live rooms outside maintenance that have no active
// reserved room whose reservation is live, not cancelled and overlaps the
// requested stay.
func (r *RoomRepo) Available(ctx context.Context, aq AvailabilityQuery) ([]model.RoomListing, error) {
	f := &Filter{}
	f.Where("rm.is_deleted = 0").Where("rm.room_status_id <> ?", model.RoomMaintenance)
	if aq.RoomTypeID != 0 {
		f.Eq("rm.room_type_id", aq.RoomTypeID)
	}
	f.Where(`NOT EXISTS (
	    SELECT 1 FROM reserved_rooms rr
	    JOIN reservations r ON r.id = rr.reservation_id
	    WHERE rr.room_id = rm.id AND rr.is_deleted = 0 AND r.is_deleted = 0
	      AND r.reservation_status_id <> ?
	      AND r.check_in_date < ? AND r.check_out_date > ?)`,
		model.ReservationCancelled, aq.CheckOut, aq.CheckIn)
	where, args := f.Clause()
	return r.collect(ctx, `SELECT `+roomListingCols+roomListingFrom+where+` ORDER BY rm.room_number`, args...)
}

func lookup(ctx context.Context, q querier, stmt string) ([]model.Lookup, error) {
	rows, err := q.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Lookup, 0)
	for rows.Next() {
		var l model.Lookup
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
