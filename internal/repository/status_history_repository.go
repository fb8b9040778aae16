package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// StatusHistoryRepo appends to and reads reservation_status_history.  Rows
// are never updated or deleted.
type StatusHistoryRepo struct {
	q querier
}

func NewStatusHistoryRepo(db *sql.DB) *StatusHistoryRepo { return &StatusHistoryRepo{q: db} }

// Append inserts one history row stamped with the current time.
func (r *StatusHistoryRepo) Append(ctx context.Context, h *model.StatusHistory) error {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO reservation_status_history (reservation_id, reservation_status_id, changed_by_user_id)
		 VALUES (?, ?, ?)`, h.ReservationID, h.Status, h.ChangedByUserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

const historySelect = `SELECT h.id, h.reservation_id, h.reservation_status_id, rs.name,
    h.changed_by_user_id, COALESCE(u.username, ''), h.changed_at
    FROM reservation_status_history h
    JOIN reservation_statuses rs ON rs.id = h.reservation_status_id
    LEFT JOIN users u ON u.id = h.changed_by_user_id`

// ByReservation returns the history of one reservation, oldest first.
func (r *StatusHistoryRepo) ByReservation(ctx context.Context, reservationID uint64) ([]model.StatusHistory, error) {
	return r.collect(ctx, historySelect+` WHERE h.reservation_id = ? ORDER BY h.changed_at, h.id`, reservationID)
}

// List returns the global history, newest first.  Filters: reservation_id,
// status.
func (r *StatusHistoryRepo) List(ctx context.Context, lq ListQuery) ([]model.StatusHistory, error) {
	f := (&Filter{}).Allowed(lq, map[string]string{
		"reservation_id": "h.reservation_id",
		"status":         "h.reservation_status_id",
	})
	tail, args := f.Page(lq, "h.changed_at DESC, h.id DESC")
	return r.collect(ctx, historySelect+tail, args...)
}

func (r *StatusHistoryRepo) collect(ctx context.Context, q string, args ...any) ([]model.StatusHistory, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.StatusHistory, 0)
	for rows.Next() {
		var h model.StatusHistory
		var by sql.NullInt64
		if err := rows.Scan(&h.ID, &h.ReservationID, &h.Status, &h.StatusName, &by, &h.ChangedBy, &h.ChangedAt); err != nil {
			return nil, err
		}
		if by.Valid {
			uid := uint64(by.Int64)
			h.ChangedByUserID = &uid
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ReservationStatuses returns the reservation_statuses lookup table.
func (r *StatusHistoryRepo) ReservationStatuses(ctx context.Context) ([]model.Lookup, error) {
	return lookup(ctx, r.q, `SELECT id, name FROM reservation_statuses ORDER BY id`)
}
