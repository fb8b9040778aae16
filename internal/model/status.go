package model

// ReservationStatus mirrors the reservation_statuses lookup table.  The
// numeric values are the table ids and must not be renumbered.
type ReservationStatus uint8

const (
	ReservationPending    ReservationStatus = 1
	ReservationConfirmed  ReservationStatus = 2
	ReservationCheckedIn  ReservationStatus = 3
	ReservationCheckedOut ReservationStatus = 4
	ReservationCancelled  ReservationStatus = 5
)

// RoomStatus mirrors the room_statuses lookup table.
type RoomStatus uint8

const (
	RoomAvailable   RoomStatus = 1
	RoomOccupied    RoomStatus = 2
	RoomMaintenance RoomStatus = 3
	RoomReserved    RoomStatus = 4
)

// InitialReservationStatus is assigned to every newly inserted reservation.
const InitialReservationStatus = ReservationPending

// BookedRoomStatus is assigned to a room when it is attached to a new
// reservation, independently of the reservation's own status.
const BookedRoomStatus = RoomReserved

// ReservationRoomStatus is the derivation table from a reservation status to
// the status its current room must carry.
var ReservationRoomStatus = map[ReservationStatus]RoomStatus{
	ReservationPending:    RoomAvailable,
	ReservationConfirmed:  RoomReserved,
	ReservationCheckedIn:  RoomOccupied,
	ReservationCheckedOut: RoomAvailable,
	ReservationCancelled:  RoomAvailable,
}

// reservationFlow lists the forward transitions of the informal lifecycle.
// Writes outside this table are still accepted; see CanTransitionTo.
var reservationFlow = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCheckedIn, ReservationCancelled},
	ReservationCheckedIn: {ReservationCheckedOut},
}

var reservationStatusNames = map[ReservationStatus]string{
	ReservationPending:    "pending",
	ReservationConfirmed:  "confirmed",
	ReservationCheckedIn:  "checked-in",
	ReservationCheckedOut: "checked-out",
	ReservationCancelled:  "cancelled",
}

var roomStatusNames = map[RoomStatus]string{
	RoomAvailable:   "available",
	RoomOccupied:    "occupied",
	RoomMaintenance: "maintenance",
	RoomReserved:    "reserved",
}

// Valid reports whether s is one of the known reservation statuses.
func (s ReservationStatus) Valid() bool {
	_, ok := reservationStatusNames[s]
	return ok
}

func (s ReservationStatus) String() string {
	if n, ok := reservationStatusNames[s]; ok {
		return n
	}
	return "unknown"
}

// RoomStatus returns the room status derived from s.  Unknown statuses map
// to available.
func (s ReservationStatus) RoomStatus() RoomStatus {
	if rs, ok := ReservationRoomStatus[s]; ok {
		return rs
	}
	return RoomAvailable
}

// CanTransitionTo reports whether moving from s to next follows the forward
// lifecycle (pending → confirmed → checked-in → checked-out, with cancelled
// reachable from pending and confirmed).  Staying on the same status counts
// as in order.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	if s == next {
		return true
	}
	for _, n := range reservationFlow[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the known room statuses.
func (s RoomStatus) Valid() bool {
	_, ok := roomStatusNames[s]
	return ok
}

func (s RoomStatus) String() string {
	if n, ok := roomStatusNames[s]; ok {
		return n
	}
	return "unknown"
}

// Lookup is a row of one of the static status tables.
type Lookup struct {
	ID   uint8  `json:"id"`
	Name string `json:"name"`
}
