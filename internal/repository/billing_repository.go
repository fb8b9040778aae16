package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// AddonRepo persists the addon catalogue.
type AddonRepo struct {
	q querier
}

func NewAddonRepo(db *sql.DB) *AddonRepo { return &AddonRepo{q: db} }

func (r *AddonRepo) List(ctx context.Context, lq ListQuery) ([]model.Addon, error) {
	f := (&Filter{}).Where("is_deleted = 0")
	if s := lq.Get("search"); s != "" {
		f.Like("name", s)
	}
	tail, args := f.Page(lq, "name, id")
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, price_cents, is_deleted, created_at, updated_at FROM addons`+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Addon, 0)
	for rows.Next() {
		var a model.Addon
		if err := rows.Scan(&a.ID, &a.Name, &a.PriceCents, &a.IsDeleted, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AddonRepo) Get(ctx context.Context, id uint64) (*model.Addon, error) {
	var a model.Addon
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, price_cents, is_deleted, created_at, updated_at FROM addons WHERE id = ? AND is_deleted = 0`, id).
		Scan(&a.ID, &a.Name, &a.PriceCents, &a.IsDeleted, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AddonRepo) Create(ctx context.Context, a *model.Addon) (uint64, error) {
	res, err := r.q.ExecContext(ctx, `INSERT INTO addons (name, price_cents) VALUES (?, ?)`, a.Name, a.PriceCents)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	a.ID = uint64(id)
	return a.ID, nil
}

func (r *AddonRepo) Update(ctx context.Context, id uint64, a *model.Addon) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE addons SET name = ?, price_cents = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_deleted = 0`,
		a.Name, a.PriceCents, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *AddonRepo) SoftDelete(ctx context.Context, id uint64) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE addons SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_deleted = 0`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// AddonOrderRepo persists addons bought for reservations.
type AddonOrderRepo struct {
	q querier
}

func NewAddonOrderRepo(db *sql.DB) *AddonOrderRepo { return &AddonOrderRepo{q: db} }

const addonOrderSelect = `SELECT o.id, o.reservation_id, o.addon_id, a.name, o.quantity, a.price_cents, o.status,
    o.is_deleted, o.created_at, o.updated_at
    FROM addon_orders o JOIN addons a ON a.id = o.addon_id`

func (r *AddonOrderRepo) collect(ctx context.Context, q string, args ...any) ([]model.AddonOrder, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.AddonOrder, 0)
	for rows.Next() {
		var o model.AddonOrder
		if err := rows.Scan(&o.ID, &o.ReservationID, &o.AddonID, &o.AddonName, &o.Quantity, &o.UnitCents, &o.Status,
			&o.IsDeleted, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// List returns live addon orders.  Filters: reservation_id, addon_id, status.
func (r *AddonOrderRepo) List(ctx context.Context, lq ListQuery) ([]model.AddonOrder, error) {
	f := (&Filter{}).Where("o.is_deleted = 0").Allowed(lq, map[string]string{
		"reservation_id": "o.reservation_id",
		"addon_id":       "o.addon_id",
		"status":         "o.status",
	})
	tail, args := f.Page(lq, "o.created_at DESC, o.id DESC")
	return r.collect(ctx, addonOrderSelect+tail, args...)
}

func (r *AddonOrderRepo) Get(ctx context.Context, id uint64) (*model.AddonOrder, error) {
	out, err := r.collect(ctx, addonOrderSelect+` WHERE o.id = ? AND o.is_deleted = 0`, id)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

// ByReservation returns the live addon orders of a reservation.
func (r *AddonOrderRepo) ByReservation(ctx context.Context, reservationID uint64) ([]model.AddonOrder, error) {
	return r.collect(ctx, addonOrderSelect+` WHERE o.reservation_id = ? AND o.is_deleted = 0 ORDER BY o.id`, reservationID)
}

func (r *AddonOrderRepo) Create(ctx context.Context, o *model.AddonOrder) (uint64, error) {
	if o.Status == "" {
		o.Status = "PENDING"
	}
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO addon_orders (reservation_id, addon_id, quantity, status) VALUES (?, ?, ?, ?)`,
		o.ReservationID, o.AddonID, o.Quantity, o.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	o.ID = uint64(id)
	return o.ID, nil
}

func (r *AddonOrderRepo) Update(ctx context.Context, id uint64, o *model.AddonOrder) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE addon_orders SET reservation_id = ?, addon_id = ?, quantity = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_deleted = 0`, o.ReservationID, o.AddonID, o.Quantity, o.Status, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *AddonOrderRepo) SoftDelete(ctx context.Context, id uint64) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE addon_orders SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_deleted = 0`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// BillingRepo persists billing records and assembles invoices.
type BillingRepo struct {
	q querier
}

func NewBillingRepo(db *sql.DB) *BillingRepo { return &BillingRepo{q: db} }

const billingCols = `id, reservation_id, total_cents, paid_cents, status, is_deleted, created_at, updated_at`

func scanBilling(s rowScanner, b *model.Billing) error {
	return s.Scan(&b.ID, &b.ReservationID, &b.TotalCents, &b.PaidCents, &b.Status, &b.IsDeleted, &b.CreatedAt, &b.UpdatedAt)
}

// List returns live billings.  Filters: reservation_id, status.
func (r *BillingRepo) List(ctx context.Context, lq ListQuery) ([]model.Billing, error) {
	f := (&Filter{}).Where("is_deleted = 0").Allowed(lq, map[string]string{
		"reservation_id": "reservation_id",
		"status":         "status",
	})
	tail, args := f.Page(lq, "created_at DESC, id DESC")
	rows, err := r.q.QueryContext(ctx, `SELECT `+billingCols+` FROM billings`+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Billing, 0)
	for rows.Next() {
		var b model.Billing
		if err := scanBilling(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BillingRepo) Get(ctx context.Context, id uint64) (*model.Billing, error) {
	var b model.Billing
	err := scanBilling(r.q.QueryRowContext(ctx,
		`SELECT `+billingCols+` FROM billings WHERE id = ? AND is_deleted = 0`, id), &b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BillingRepo) Create(ctx context.Context, b *model.Billing) (uint64, error) {
	if b.Status == "" {
		b.Status = "UNPAID"
	}
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO billings (reservation_id, total_cents, paid_cents, status) VALUES (?, ?, ?, ?)`,
		b.ReservationID, b.TotalCents, b.PaidCents, b.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	b.ID = uint64(id)
	return b.ID, nil
}

func (r *BillingRepo) Update(ctx context.Context, id uint64, b *model.Billing) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE billings SET reservation_id = ?, total_cents = ?, paid_cents = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_deleted = 0`, b.ReservationID, b.TotalCents, b.PaidCents, b.Status, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *BillingRepo) SoftDelete(ctx context.Context, id uint64) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE billings SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_deleted = 0`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Invoice loads a billing with its reservation, guest and addon orders.
func (r *BillingRepo) Invoice(ctx context.Context, id uint64) (*model.Invoice, error) {
	b, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := (&ReservationRepo{q: r.q}).GetDetail(ctx, b.ReservationID)
	if err != nil {
		return nil, err
	}
	g, err := (&GuestRepo{q: r.q}).Get(ctx, res.GuestID)
	if err != nil {
		return nil, err
	}
	items, err := (&AddonOrderRepo{q: r.q}).ByReservation(ctx, b.ReservationID)
	if err != nil {
		return nil, err
	}
	return &model.Invoice{Billing: *b, Reservation: *res, Guest: *g, Items: items}, nil
}
