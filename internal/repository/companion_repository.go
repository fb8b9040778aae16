package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// CompanionRepo persists reserved_room_companions.
type CompanionRepo struct {
	q querier
}

func NewCompanionRepo(db *sql.DB) *CompanionRepo { return &CompanionRepo{q: db} }

const companionCols = `c.id, c.reserved_room_id, c.full_name, c.is_deleted, c.created_at, c.updated_at`

func scanCompanion(s rowScanner, c *model.Companion) error {
	return s.Scan(&c.ID, &c.ReservedRoomID, &c.FullName, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CompanionRepo) collect(ctx context.Context, q string, args ...any) ([]model.Companion, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Companion, 0)
	for rows.Next() {
		var c model.Companion
		if err := scanCompanion(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// List returns live companions.  Filters: reserved_room_id, reservation_id.
func (r *CompanionRepo) List(ctx context.Context, lq ListQuery) ([]model.Companion, error) {
	f := (&Filter{}).Where("c.is_deleted = 0").Allowed(lq, map[string]string{
		"reserved_room_id": "c.reserved_room_id",
		"reservation_id":   "rr.reservation_id",
	})
	tail, args := f.Page(lq, "c.id")
	return r.collect(ctx, `SELECT `+companionCols+` FROM reserved_room_companions c
	                       JOIN reserved_rooms rr ON rr.id = c.reserved_room_id`+tail, args...)
}

// Get returns a live companion or ErrNotFound.
func (r *CompanionRepo) Get(ctx context.Context, id uint64) (*model.Companion, error) {
	var c model.Companion
	err := scanCompanion(r.q.QueryRowContext(ctx,
		`SELECT `+companionCols+` FROM reserved_room_companions c WHERE c.id = ? AND c.is_deleted = 0`, id), &c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ByReservation returns the live companions attached to any live room of a
// reservation.
func (r *CompanionRepo) ByReservation(ctx context.Context, reservationID uint64) ([]model.Companion, error) {
	return r.collect(ctx, `SELECT `+companionCols+` FROM reserved_room_companions c
	                       JOIN reserved_rooms rr ON rr.id = c.reserved_room_id
	                       WHERE rr.reservation_id = ? AND rr.is_deleted = 0 AND c.is_deleted = 0
	                       ORDER BY c.id`, reservationID)
}

// Create inserts a companion and returns its id.
func (r *CompanionRepo) Create(ctx context.Context, c *model.Companion) (uint64, error) {
	c.FullName = model.NormalizeName(c.FullName)
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO reserved_room_companions (reserved_room_id, full_name) VALUES (?, ?)`,
		c.ReservedRoomID, c.FullName)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	c.ID = uint64(id)
	return c.ID, nil
}

// Update rewrites a live companion's room and name.
func (r *CompanionRepo) Update(ctx context.Context, id uint64, c *model.Companion) (int64, error) {
	c.FullName = model.NormalizeName(c.FullName)
	res, err := r.q.ExecContext(ctx,
		`UPDATE reserved_room_companions SET reserved_room_id = ?, full_name = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_deleted = 0`, c.ReservedRoomID, c.FullName, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SoftDelete flags a companion as deleted.
func (r *CompanionRepo) SoftDelete(ctx context.Context, id uint64) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE reserved_room_companions SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_deleted = 0`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SoftDeleteByName flags every live companion of the reservation whose name
// matches fullName as deleted.  Matching follows model.SameName: case and
// blank runs are ignored, also for rows written before names were
// normalized.
func (r *CompanionRepo) SoftDeleteByName(ctx context.Context, reservationID uint64, fullName string) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE reserved_room_companions c
		 JOIN reserved_rooms rr ON rr.id = c.reserved_room_id
		 SET c.is_deleted = 1, c.updated_at = CURRENT_TIMESTAMP
		 WHERE rr.reservation_id = ? AND c.is_deleted = 0 AND LOWER(REGEXP_REPLACE(TRIM(c.full_name), '[[:space:]]+', ' ')) = LOWER(?)`,
		reservationID, model.NormalizeName(fullName))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
