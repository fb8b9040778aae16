package model

import "time"

// Room is a physical unit.  Its status is derived from reservations except
// for maintenance, which staff set directly.
type Room struct {
	ID         uint64     `json:"id"`
	RoomNumber string     `json:"room_number"`
	RoomTypeID uint64     `json:"room_type_id"`
	Status     RoomStatus `json:"room_status_id"`
	IsDeleted  bool       `json:"is_deleted"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// RoomListing is a room joined with its type and status names.
type RoomListing struct {
	Room
	RoomTypeName string `json:"room_type_name"`
	PriceCents   uint32 `json:"price_cents"`
	Capacity     uint16 `json:"capacity"`
	StatusName   string `json:"room_status"`
}

// RoomType is the pricing and capacity template shared by rooms.
type RoomType struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  uint32    `json:"price_cents"`
	Capacity    uint16    `json:"capacity"`
	Features    []Feature `json:"features,omitempty"`
	IsDeleted   bool      `json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Feature is an amenity that can be attached to room types.
type Feature struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomTypeFeature is the join row between room types and features.
type RoomTypeFeature struct {
	ID         uint64    `json:"id"`
	RoomTypeID uint64    `json:"room_type_id"`
	FeatureID  uint64    `json:"feature_id"`
	IsDeleted  bool      `json:"is_deleted"`
	CreatedAt  time.Time `json:"created_at"`
}
