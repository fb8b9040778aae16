package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  Rooms booked
// under a reservation live in reserved_rooms and are loaded alongside for
// display.  Reservations are never hard deleted.
type ReservationRepo struct {
	q querier
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{q: db} }

// DATE and TIME columns are formatted in SQL so they scan into plain strings.
const reservationCols = `r.id, r.guest_id,
	DATE_FORMAT(r.check_in_date, '%Y-%m-%d'), DATE_FORMAT(r.check_out_date, '%Y-%m-%d'),
	TIME_FORMAT(r.check_in_time, '%H:%i'), TIME_FORMAT(r.check_out_time, '%H:%i'),
	r.reservation_status_id, r.is_deleted, r.created_at, r.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(s rowScanner, r *model.Reservation, extra ...any) error {
	var inTime, outTime sql.NullString
	dest := []any{
		&r.ID, &r.GuestID, &r.CheckIn, &r.CheckOut, &inTime, &outTime,
		&r.Status, &r.IsDeleted, &r.CreatedAt, &r.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return err
	}
	r.CheckInTime = nullStringPtr(inTime)
	r.CheckOutTime = nullStringPtr(outTime)
	return nil
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	s := ns.String
	return &s
}

// Get returns a live reservation by id or ErrNotFound.
func (r *ReservationRepo) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
	return r.get(ctx, id, false)
}

func (r *ReservationRepo) get(ctx context.Context, id uint64, forUpdate bool) (*model.Reservation, error) {
	q := `SELECT ` + reservationCols + ` FROM reservations r WHERE r.id = ? AND r.is_deleted = 0`
	if forUpdate {
		q += ` FOR UPDATE`
	}
	var res model.Reservation
	if err := scanReservation(r.q.QueryRowContext(ctx, q, id), &res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// Create inserts a reservation and populates its generated ID.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
			   (guest_id, check_in_date, check_out_date, check_in_time, check_out_time, reservation_status_id)
			   VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.q.ExecContext(ctx, q, res.GuestID, res.CheckIn, res.CheckOut, res.CheckInTime, res.CheckOutTime, res.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// Update writes the guest, dates and status of a live reservation.  It
// returns ErrNotFound when no live row matches.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	const q = `UPDATE reservations
			   SET guest_id = ?, check_in_date = ?, check_out_date = ?, check_in_time = ?, check_out_time = ?,
				   reservation_status_id = ?, updated_at = CURRENT_TIMESTAMP
			   WHERE id = ? AND is_deleted = 0`
	result, err := r.q.ExecContext(ctx, q, res.GuestID, res.CheckIn, res.CheckOut, res.CheckInTime, res.CheckOutTime, res.Status, res.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete flags a live reservation as deleted and reports the number of
// rows changed (0 when it was already deleted or never existed).
func (r *ReservationRepo) SoftDelete(ctx context.Context, id uint64) (int64, error) {
	const q = `UPDATE reservations SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_deleted = 0`
	result, err := r.q.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// List returns live reservations with guest, status and room details,
// newest first.  Supported filters: status (reservation_status_id),
// guest_id, search (guest name substring), from/to (stay overlaps the
// range).
func (r *ReservationRepo) List(ctx context.Context, lq ListQuery) ([]model.ReservationDetail, error) {
	f := &Filter{}
	f.Where("r.is_deleted = 0")
	f.Allowed(lq, map[string]string{
		"status":   "r.reservation_status_id",
		"guest_id": "r.guest_id",
	})
	if s := lq.Get("search"); s != "" {
		f.Like("CONCAT(g.first_name, ' ', g.last_name)", s)
	}
	if from := lq.Get("from"); from != "" {
		f.Where("r.check_out_date > ?", from)
	}
	if to := lq.Get("to"); to != "" {
		f.Where("r.check_in_date < ?", to)
	}
	tail, args := f.Page(lq, "r.created_at DESC, r.id DESC")
	return r.details(ctx, tail, args)
}

// GetDetail returns one live reservation with its guest, status and rooms.
func (r *ReservationRepo) GetDetail(ctx context.Context, id uint64) (*model.ReservationDetail, error) {
	f := &Filter{}
	f.Where("r.is_deleted = 0").Eq("r.id", id)
	where, args := f.Clause()
	out, err := r.details(ctx, where, args)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

func (r *ReservationRepo) details(ctx context.Context, tail string, args []any) ([]model.ReservationDetail, error) {
	q := `SELECT ` + reservationCols + `, CONCAT(g.first_name, ' ', g.last_name), rs.name
		  FROM reservations r
		  JOIN guests g ON g.id = r.guest_id
		  JOIN reservation_statuses rs ON rs.id = r.reservation_status_id` + tail
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ReservationDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d model.ReservationDetail
		if err := scanReservation(rows, &d.Reservation, &d.GuestName, &d.StatusName); err != nil {
			return nil, err
		}
		d.Rooms = []model.ReservedRoomBrief{}
		index[d.ID] = len(out)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := r.attachRooms(ctx, out, index); err != nil {
		return nil, err
	}
	return out, nil
}

// attachRooms loads the active rooms and their companions for all
// reservations in two queries.
func (r *ReservationRepo) attachRooms(ctx context.Context, out []model.ReservationDetail, index map[uint64]int) error {
	ids := make([]any, 0, len(out))
	for _, d := range out {
		ids = append(ids, d.ID)
	}
	roomQ := `SELECT rr.reservation_id, rr.id, rm.id, rm.room_number, rt.id, rt.name
			  FROM reserved_rooms rr
			  JOIN rooms rm ON rm.id = rr.room_id
			  JOIN room_types rt ON rt.id = rm.room_type_id
			  WHERE rr.is_deleted = 0 AND rr.reservation_id IN (` + placeholders(len(ids)) + `)
			  ORDER BY rr.reservation_id, rr.id`
	rows, err := r.q.QueryContext(ctx, roomQ, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	type slot struct{ res, room int }
	byReserved := make(map[uint64]slot)
	for rows.Next() {
		var resID uint64
		var b model.ReservedRoomBrief
		if err := rows.Scan(&resID, &b.ReservedRoomID, &b.RoomID, &b.RoomNumber, &b.RoomTypeID, &b.RoomTypeName); err != nil {
			return err
		}
		idx, ok := index[resID]
		if !ok {
			continue
		}
		b.Companions = []string{}
		byReserved[b.ReservedRoomID] = slot{res: idx, room: len(out[idx].Rooms)}
		out[idx].Rooms = append(out[idx].Rooms, b)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(byReserved) == 0 {
		return nil
	}
	compQ := `SELECT c.reserved_room_id, c.full_name
			  FROM reserved_room_companions c
			  JOIN reserved_rooms rr ON rr.id = c.reserved_room_id
			  WHERE c.is_deleted = 0 AND rr.is_deleted = 0 AND rr.reservation_id IN (` + placeholders(len(ids)) + `)
			  ORDER BY c.id`
	crows, err := r.q.QueryContext(ctx, compQ, ids...)
	if err != nil {
		return err
	}
	defer crows.Close()
	for crows.Next() {
		var rrID uint64
		var name string
		if err := crows.Scan(&rrID, &name); err != nil {
			return err
		}
		if s, ok := byReserved[rrID]; ok {
			out[s.res].Rooms[s.room].Companions = append(out[s.res].Rooms[s.room].Companions, name)
		}
	}
	return crows.Err()
}
