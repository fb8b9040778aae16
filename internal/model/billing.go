package model

import "time"

// Addon is a purchasable extra (breakfast, airport transfer, ...).
type Addon struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	PriceCents uint32    `json:"price_cents"`
	IsDeleted  bool      `json:"is_deleted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AddonOrder is an addon bought for a reservation.
type AddonOrder struct {
	ID            uint64    `json:"id"`
	ReservationID uint64    `json:"reservation_id"`
	AddonID       uint64    `json:"addon_id"`
	AddonName     string    `json:"addon_name,omitempty"`
	Quantity      uint32    `json:"quantity"`
	UnitCents     uint32    `json:"unit_price_cents,omitempty"`
	Status        string    `json:"status"`
	IsDeleted     bool      `json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Billing is the charge record of a reservation.
type Billing struct {
	ID            uint64    `json:"id"`
	ReservationID uint64    `json:"reservation_id"`
	TotalCents    uint64    `json:"total_cents"`
	PaidCents     uint64    `json:"paid_cents"`
	Status        string    `json:"status"`
	IsDeleted     bool      `json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BalanceCents is the unpaid remainder, never negative.
func (b Billing) BalanceCents() uint64 {
	if b.PaidCents >= b.TotalCents {
		return 0
	}
	return b.TotalCents - b.PaidCents
}

// Invoice gathers what a printed invoice shows for one billing record.
type Invoice struct {
	Billing     Billing           `json:"billing"`
	Reservation ReservationDetail `json:"reservation"`
	Guest       Guest             `json:"guest"`
	Items       []AddonOrder      `json:"items"`
}
