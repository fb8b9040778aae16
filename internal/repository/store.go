package repository

import (
	"context"
	"database/sql"
	"strings"
)

// querier is the subset of *sql.DB and *sql.Tx used by the repositories, so
// the same statements run inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store bundles every repository bound to the connection pool and opens
// transactions over the reservation lifecycle tables.
type Store struct {
	db *sql.DB

	Reservations     *ReservationRepo
	ReservedRooms    *ReservedRoomRepo
	Companions       *CompanionRepo
	Rooms            *RoomRepo
	RoomTypes        *RoomTypeRepo
	Features         *FeatureRepo
	RoomTypeFeatures *RoomTypeFeatureRepo
	Guests           *GuestRepo
	History          *StatusHistoryRepo
	Addons           *AddonRepo
	AddonOrders      *AddonOrderRepo
	Billings         *BillingRepo
	Users            *UserRepo
	Tokens           *TokenRepo
}

// NewStore wires all repositories to db.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:               db,
		Reservations:     NewReservationRepo(db),
		ReservedRooms:    NewReservedRoomRepo(db),
		Companions:       NewCompanionRepo(db),
		Rooms:            NewRoomRepo(db),
		RoomTypes:        NewRoomTypeRepo(db),
		Features:         NewFeatureRepo(db),
		RoomTypeFeatures: NewRoomTypeFeatureRepo(db),
		Guests:           NewGuestRepo(db),
		History:          NewStatusHistoryRepo(db),
		Addons:           NewAddonRepo(db),
		AddonOrders:      NewAddonOrderRepo(db),
		Billings:         NewBillingRepo(db),
		Users:            NewUserRepo(db),
		Tokens:           NewTokenRepo(db),
	}
}

// DB exposes the underlying pool.
func (s *Store) DB() *sql.DB { return s.db }

// InTx runs fn inside a database transaction.  The transaction is committed
// when fn returns nil and rolled back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	return runInTx(ctx, s.db, func(sqlTx *sql.Tx) error {
		return fn(newTx(sqlTx))
	})
}

func runInTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// placeholders returns "?,?,?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
