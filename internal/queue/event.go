// Package queue defines message payloads exchanged over the message broker
// together with the publisher and the log consumer.
package queue

// StatusChangedQueue is the durable queue carrying reservation status
// changes.
const StatusChangedQueue = "reservation.status_changed"

// ReservationStatusChangedEvent is published after a reservation's status
// was written and committed, including the initial pending status of a new
// reservation.  OutOfOrder marks writes that skip or reverse the usual
// pending → confirmed → checked-in → checked-out flow.
type ReservationStatusChangedEvent struct {
    ReservationID   uint64   `json:"reservation_id"`
    GuestID         uint64   `json:"guest_id"`
    PreviousStatus  uint8    `json:"previous_status_id,omitempty"`
    Status          uint8    `json:"status_id"`
    StatusName      string   `json:"status"`
    RoomIDs         []uint64 `json:"room_ids"`
    RoomStatus      string   `json:"room_status"`
    OutOfOrder      bool     `json:"out_of_order"`
    ChangedByUserID uint64   `json:"changed_by_user_id,omitempty"`
    ChangedAt       string   `json:"changed_at"`
}
