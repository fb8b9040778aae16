package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomTypeRepo persists room types and loads their features.
type RoomTypeRepo struct {
	q querier
}

func NewRoomTypeRepo(db *sql.DB) *RoomTypeRepo { return &RoomTypeRepo{q: db} }

const roomTypeCols = `id, name, description, price_cents, capacity, is_deleted, created_at, updated_at`

func scanRoomType(s rowScanner, t *model.RoomType) error {
	return s.Scan(&t.ID, &t.Name, &t.Description, &t.PriceCents, &t.Capacity, &t.IsDeleted, &t.CreatedAt, &t.UpdatedAt)
}

// List returns live room types with their features.  Filters: search (name
// substring).
func (r *RoomTypeRepo) List(ctx context.Context, lq ListQuery) ([]model.RoomType, error) {
	f := (&Filter{}).Where("is_deleted = 0")
	if s := lq.Get("search"); s != "" {
		f.Like("name", s)
	}
	tail, args := f.Page(lq, "name, id")
	rows, err := r.q.QueryContext(ctx, `SELECT `+roomTypeCols+` FROM room_types`+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RoomType, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var t model.RoomType
		if err := scanRoomType(rows, &t); err != nil {
			return nil, err
		}
		t.Features = []model.Feature{}
		index[t.ID] = len(out)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	ids := make([]any, 0, len(out))
	for _, t := range out {
		ids = append(ids, t.ID)
	}
	frows, err := r.q.QueryContext(ctx,
		`SELECT rtf.room_type_id, f.id, f.name, f.is_deleted, f.created_at, f.updated_at
		 FROM room_type_features rtf
		 JOIN features f ON f.id = rtf.feature_id
		 WHERE rtf.is_deleted = 0 AND f.is_deleted = 0 AND rtf.room_type_id IN (`+placeholders(len(ids))+`)
		 ORDER BY f.name`, ids...)
	if err != nil {
		return nil, err
	}
	defer frows.Close()
	for frows.Next() {
		var rtID uint64
		var f model.Feature
		if err := frows.Scan(&rtID, &f.ID, &f.Name, &f.IsDeleted, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		if idx, ok := index[rtID]; ok {
			out[idx].Features = append(out[idx].Features, f)
		}
	}
	return out, frows.Err()
}

// Get returns a live room type with its features or ErrNotFound.
func (r *RoomTypeRepo) Get(ctx context.Context, id uint64) (*model.RoomType, error) {
	var t model.RoomType
	err := scanRoomType(r.q.QueryRowContext(ctx,
		`SELECT `+roomTypeCols+` FROM room_types WHERE id = ? AND is_deleted = 0`, id), &t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	feats, err := featuresOf(ctx, r.q, id)
	if err != nil {
		return nil, err
	}
	t.Features = feats
	return &t, nil
}

// Create inserts a room type and returns its id.
func (r *RoomTypeRepo) Create(ctx context.Context, t *model.RoomType) (uint64, error) {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO room_types (name, description, price_cents, capacity) VALUES (?, ?, ?, ?)`,
		t.Name, t.Description, t.PriceCents, t.Capacity)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	t.ID = uint64(id)
	return t.ID, nil
}

// Update rewrites a live room type.
func (r *RoomTypeRepo) Update(ctx context.Context, id uint64, t *model.RoomType) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE room_types SET name = ?, description = ?, price_cents = ?, capacity = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_deleted = 0`, t.Name, t.Description, t.PriceCents, t.Capacity, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SoftDelete flags a room type as deleted.
func (r *RoomTypeRepo) SoftDelete(ctx context.Context, id uint64) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE room_types SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_deleted = 0`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func featuresOf(ctx context.Context, q querier, roomTypeID uint64) ([]model.Feature, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT f.id, f.name, f.is_deleted, f.created_at, f.updated_at
		 FROM room_type_features rtf
		 JOIN features f ON f.id = rtf.feature_id
		 WHERE rtf.room_type_id = ? AND rtf.is_deleted = 0 AND f.is_deleted = 0
		 ORDER BY f.name`, roomTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Feature, 0)
	for rows.Next() {
		var f model.Feature
		if err := rows.Scan(&f.ID, &f.Name, &f.IsDeleted, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
