package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// FeatureRepo persists features.  Deleting a feature also detaches it from
// every room type within one transaction.
type FeatureRepo struct {
	db *sql.DB
}

func NewFeatureRepo(db *sql.DB) *FeatureRepo { return &FeatureRepo{db: db} }

// List returns live features ordered by name.
func (r *FeatureRepo) List(ctx context.Context, lq ListQuery) ([]model.Feature, error) {
	f := (&Filter{}).Where("is_deleted = 0")
	if s := lq.Get("search"); s != "" {
		f.Like("name", s)
	}
	tail, args := f.Page(lq, "name, id")
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, is_deleted, created_at, updated_at FROM features`+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Feature, 0)
	for rows.Next() {
		var ft model.Feature
		if err := rows.Scan(&ft.ID, &ft.Name, &ft.IsDeleted, &ft.CreatedAt, &ft.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ft)
	}
	return out, rows.Err()
}

// Get returns a live feature or ErrNotFound.
func (r *FeatureRepo) Get(ctx context.Context, id uint64) (*model.Feature, error) {
	var ft model.Feature
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, is_deleted, created_at, updated_at FROM features WHERE id = ? AND is_deleted = 0`, id).
		Scan(&ft.ID, &ft.Name, &ft.IsDeleted, &ft.CreatedAt, &ft.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ft, nil
}

// Create inserts a feature and returns its id.
func (r *FeatureRepo) Create(ctx context.Context, ft *model.Feature) (uint64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO features (name) VALUES (?)`, ft.Name)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	ft.ID = uint64(id)
	return ft.ID, nil
}

// Update renames a live feature.
func (r *FeatureRepo) Update(ctx context.Context, id uint64, ft *model.Feature) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE features SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_deleted = 0`, ft.Name, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SoftDelete flags a feature and all of its room type links as deleted.  It
// reports the number of feature rows changed.
func (r *FeatureRepo) SoftDelete(ctx context.Context, id uint64) (int64, error) {
	var n int64
	err := runInTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE features SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_deleted = 0`, id)
		if err != nil {
			return err
		}
		if n, err = res.RowsAffected(); err != nil || n == 0 {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE room_type_features SET is_deleted = 1 WHERE feature_id = ? AND is_deleted = 0`, id)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// RoomTypeFeatureRepo persists the links between room types and features.
type RoomTypeFeatureRepo struct {
	q querier
}

func NewRoomTypeFeatureRepo(db *sql.DB) *RoomTypeFeatureRepo { return &RoomTypeFeatureRepo{q: db} }

// ByRoomType returns the live features of a room type.
func (r *RoomTypeFeatureRepo) ByRoomType(ctx context.Context, roomTypeID uint64) ([]model.Feature, error) {
	return featuresOf(ctx, r.q, roomTypeID)
}

// Create links a feature to a room type.  It returns ErrConflict when the
// live link already exists.
func (r *RoomTypeFeatureRepo) Create(ctx context.Context, l *model.RoomTypeFeature) (uint64, error) {
	var exists int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM room_type_features WHERE room_type_id = ? AND feature_id = ? AND is_deleted = 0`,
		l.RoomTypeID, l.FeatureID).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists > 0 {
		return 0, ErrConflict
	}
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO room_type_features (room_type_id, feature_id) VALUES (?, ?)`, l.RoomTypeID, l.FeatureID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	l.ID = uint64(id)
	return l.ID, nil
}

// SoftDelete removes one link.
func (r *RoomTypeFeatureRepo) SoftDelete(ctx context.Context, id uint64) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE room_type_features SET is_deleted = 1 WHERE id = ? AND is_deleted = 0`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
