package model

import (
	"strings"
	"time"
)

// Guest holds personal, contact and identity details of a hotel guest.
type Guest struct {
	ID        uint64    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	IDType    string    `json:"id_type"`
	IDNumber  string    `json:"id_number"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName joins first and last name with a single space.
func (g Guest) FullName() string {
	return NormalizeName(g.FirstName + " " + g.LastName)
}

// GuestContact carries the optional contact fields a reservation update may
// overwrite on the guest row.  Nil fields are left untouched.
type GuestContact struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

// Empty reports whether no contact field is set.
func (c GuestContact) Empty() bool {
	return c.FirstName == nil && c.LastName == nil && c.Email == nil && c.Phone == nil && c.Address == nil
}

// NormalizeName trims a person name and collapses inner runs of blanks to
// one space.  Stored companion names are kept in this form.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SameName compares two person names ignoring case and blank runs.
func SameName(a, b string) bool {
	return strings.EqualFold(NormalizeName(a), NormalizeName(b))
}
