package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// GuestRepo persists guests.
type GuestRepo struct {
	q querier
}

func NewGuestRepo(db *sql.DB) *GuestRepo { return &GuestRepo{q: db} }

const guestCols = `id, first_name, last_name, email, phone, address, id_type, id_number, is_deleted, created_at, updated_at`

func scanGuest(s rowScanner, g *model.Guest) error {
	return s.Scan(&g.ID, &g.FirstName, &g.LastName, &g.Email, &g.Phone, &g.Address, &g.IDType, &g.IDNumber,
		&g.IsDeleted, &g.CreatedAt, &g.UpdatedAt)
}

// List returns live guests.  Filters: search (name or email substring).
func (r *GuestRepo) List(ctx context.Context, lq ListQuery) ([]model.Guest, error) {
	f := (&Filter{}).Where("is_deleted = 0")
	if s := lq.Get("search"); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		f.Where("(LOWER(CONCAT(first_name, ' ', last_name)) LIKE ? OR LOWER(email) LIKE ?)", like, like)
	}
	tail, args := f.Page(lq, "last_name, first_name, id")
	rows, err := r.q.QueryContext(ctx, `SELECT `+guestCols+` FROM guests`+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Guest, 0)
	for rows.Next() {
		var g model.Guest
		if err := scanGuest(rows, &g); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Get returns a live guest or ErrNotFound.
func (r *GuestRepo) Get(ctx context.Context, id uint64) (*model.Guest, error) {
	var g model.Guest
	err := scanGuest(r.q.QueryRowContext(ctx,
		`SELECT `+guestCols+` FROM guests WHERE id = ? AND is_deleted = 0`, id), &g)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// Create inserts a guest and returns its id.
func (r *GuestRepo) Create(ctx context.Context, g *model.Guest) (uint64, error) {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO guests (first_name, last_name, email, phone, address, id_type, id_number)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.FirstName, g.LastName, g.Email, g.Phone, g.Address, g.IDType, g.IDNumber)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	g.ID = uint64(id)
	return g.ID, nil
}

// Update rewrites all editable fields of a live guest.
func (r *GuestRepo) Update(ctx context.Context, id uint64, g *model.Guest) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE guests SET first_name = ?, last_name = ?, email = ?, phone = ?, address = ?,
		        id_type = ?, id_number = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_deleted = 0`,
		g.FirstName, g.LastName, g.Email, g.Phone, g.Address, g.IDType, g.IDNumber, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateContact overwrites only the contact fields present in c.
func (r *GuestRepo) UpdateContact(ctx context.Context, id uint64, c model.GuestContact) error {
	if c.Empty() {
		return nil
	}
	sets := make([]string, 0, 6)
	args := make([]any, 0, 6)
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, strings.TrimSpace(*v))
		}
	}
	add("first_name", c.FirstName)
	add("last_name", c.LastName)
	add("email", c.Email)
	add("phone", c.Phone)
	add("address", c.Address)
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)
	res, err := r.q.ExecContext(ctx,
		`UPDATE guests SET `+strings.Join(sets, ", ")+` WHERE id = ? AND is_deleted = 0`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete flags a guest as deleted.
func (r *GuestRepo) SoftDelete(ctx context.Context, id uint64) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE guests SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_deleted = 0`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
