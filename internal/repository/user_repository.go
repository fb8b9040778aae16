package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

// UserRepo persists staff accounts.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,username,email,password_hash,role,is_deleted,created_at,updated_at"

func scanUser(s rowScanner, u *model.User) error {
	return s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt)
}

// isDuplicate reports a unique key violation (ER_DUP_ENTRY).
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// Create hashes password and inserts the user, returning its ID.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) (uint64, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)",
		strings.TrimSpace(u.Username), strings.ToLower(strings.TrimSpace(u.Email)), hash, u.Role)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = uint64(id)
	return u.ID, nil
}

// GetByLogin fetches a live user by username or email.
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (model.User, error) {
	login = strings.TrimSpace(login)
	var u model.User
	err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE (username=? OR email=?) AND is_deleted=0 LIMIT 1",
		login, strings.ToLower(login)), &u)
	return u, err
}

// GetByID fetches a live user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? AND is_deleted=0 LIMIT 1", id), &u)
	return u, err
}

// Get is GetByID returning ErrNotFound for missing rows.
func (r *UserRepo) Get(ctx context.Context, id uint64) (*model.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// List returns live users.  Filters: role.
func (r *UserRepo) List(ctx context.Context, lq ListQuery) ([]model.User, error) {
	f := (&Filter{}).Where("is_deleted = 0").Allowed(lq, map[string]string{"role": "role"})
	tail, args := f.Page(lq, "username")
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userCols+" FROM users"+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update rewrites username, email and role; the password only when
// password is non-empty.
func (r *UserRepo) Update(ctx context.Context, id uint64, u *model.User, password string, cost int) (int64, error) {
	q := "UPDATE users SET username=?, email=?, role=?, updated_at=CURRENT_TIMESTAMP"
	args := []any{strings.TrimSpace(u.Username), strings.ToLower(strings.TrimSpace(u.Email)), u.Role}
	if password != "" {
		hash, err := utils.HashPassword(password, cost)
		if err != nil {
			return 0, err
		}
		q += ", password_hash=?"
		args = append(args, hash)
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx, q+" WHERE id=? AND is_deleted=0", args...)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	return res.RowsAffected()
}

// SoftDelete flags a user as deleted.
func (r *UserRepo) SoftDelete(ctx context.Context, id uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_deleted=1, updated_at=CURRENT_TIMESTAMP WHERE id=? AND is_deleted=0", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
