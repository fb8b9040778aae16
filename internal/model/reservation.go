package model

import "time"

// Reservation records a guest's booking.  It is never hard deleted; IsDeleted
// marks it inactive.
//
// Fields:
//  GuestID      – primary guest (main booker).
//  CheckIn/Out  – stay dates, stored as DATE.
//  CheckInTime  – optional HH:MM arrival time.
//  Status       – reservation_statuses.id.
type Reservation struct {
	ID           uint64            `json:"id"`
	GuestID      uint64            `json:"guest_id"`
	CheckIn      string            `json:"check_in_date"`
	CheckOut     string            `json:"check_out_date"`
	CheckInTime  *string           `json:"check_in_time,omitempty"`
	CheckOutTime *string           `json:"check_out_time,omitempty"`
	Status       ReservationStatus `json:"reservation_status_id"`
	IsDeleted    bool              `json:"is_deleted"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ReservationDetail is the display form of a reservation returned by list and
// get endpoints.  It joins the guest's name, the status name and the active
// rooms.
type ReservationDetail struct {
	Reservation
	GuestName  string              `json:"guest_name"`
	StatusName string              `json:"reservation_status"`
	Rooms      []ReservedRoomBrief `json:"rooms"`
}

// ReservedRoomBrief is a reserved room as shown inside a reservation.
type ReservedRoomBrief struct {
	ReservedRoomID uint64   `json:"reserved_room_id"`
	RoomID         uint64   `json:"room_id"`
	RoomNumber     string   `json:"room_number"`
	RoomTypeID     uint64   `json:"room_type_id"`
	RoomTypeName   string   `json:"room_type_name"`
	Companions     []string `json:"companions"`
}

// ReservedRoom links one room to one reservation for its stay.
type ReservedRoom struct {
	ID            uint64    `json:"id"`
	ReservationID uint64    `json:"reservation_id"`
	RoomID        uint64    `json:"room_id"`
	IsDeleted     bool      `json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Companion is a named occupant of a reserved room who is not the main
// booker.
type Companion struct {
	ID             uint64    `json:"id"`
	ReservedRoomID uint64    `json:"reserved_room_id"`
	FullName       string    `json:"full_name"`
	IsDeleted      bool      `json:"is_deleted"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StatusHistory is one append-only row of reservation_status_history.
type StatusHistory struct {
	ID              uint64            `json:"id"`
	ReservationID   uint64            `json:"reservation_id"`
	Status          ReservationStatus `json:"reservation_status_id"`
	StatusName      string            `json:"reservation_status,omitempty"`
	ChangedByUserID *uint64           `json:"changed_by_user_id,omitempty"`
	ChangedBy       string            `json:"changed_by,omitempty"`
	ChangedAt       time.Time         `json:"changed_at"`
}
