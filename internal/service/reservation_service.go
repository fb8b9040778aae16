package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// RoomUnit is one selected room of a room group and the name of the person
// staying in it.
type RoomUnit struct {
	RoomID       uint64 `json:"room_id"`
	OccupantName string `json:"occupant_name"`
}

// RoomGroup requests Quantity rooms of one type.
type RoomGroup struct {
	RoomTypeID uint64     `json:"room_type_id"`
	Quantity   int        `json:"quantity"`
	Units      []RoomUnit `json:"units"`
}

// InsertReservation is the input of Reservations.Insert.  Either RoomID or
// Rooms selects the rooms; Rooms wins when both are present.
type InsertReservation struct {
	GuestID        uint64      `json:"guest_id"`
	CheckIn        string      `json:"check_in"`
	CheckOut       string      `json:"check_out"`
	CheckInTime    *string     `json:"check_in_time"`
	CheckOutTime   *string     `json:"check_out_time"`
	MainBookerName string      `json:"main_booker_name"`
	RoomID         uint64      `json:"room_id"`
	RoomTypeID     uint64      `json:"room_type_id"`
	Rooms          []RoomGroup `json:"rooms"`
}

// UpdateReservation carries the fields a reservation update may change.  Nil
// fields are left as they are.
type UpdateReservation struct {
	GuestID *uint64 `json:"guest_id"`
	model.GuestContact
	CheckIn      *string `json:"check_in"`
	CheckOut     *string `json:"check_out"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	RoomID       *uint64 `json:"room_id"`
	StatusID     *uint8  `json:"reservation_status_id"`
}

// Reservations implements the reservation lifecycle.  Every operation runs
// in a single transaction; status change events are published only after
// commit.
type Reservations struct {
	store  ReservationStore
	events EventPublisher
	logger echo.Logger
	now    func() time.Time
}

// NewReservations builds the service.  events may be nil to disable
// publishing.
func NewReservations(store ReservationStore, events EventPublisher, logger echo.Logger) *Reservations {
	return &Reservations{store: store, events: events, logger: logger, now: time.Now}
}

// Insert creates a pending reservation, books the requested rooms and
// records the first history row.  It returns the new reservation id.
func (s *Reservations) Insert(ctx context.Context, actor model.Actor, in InsertReservation) (uint64, error) {
	if in.GuestID == 0 {
		return 0, Invalidf("guest_id is required")
	}
	if err := validateStay(in.CheckIn, in.CheckOut); err != nil {
		return 0, err
	}
	if err := validateTimes(in.CheckInTime, in.CheckOutTime); err != nil {
		return 0, err
	}

	res := model.Reservation{
		GuestID:      in.GuestID,
		CheckIn:      in.CheckIn,
		CheckOut:     in.CheckOut,
		CheckInTime:  blankToNil(in.CheckInTime),
		CheckOutTime: blankToNil(in.CheckOutTime),
		Status:       model.InitialReservationStatus,
	}
	var booked []uint64
	err := s.store.InTx(ctx, func(tx ReservationTx) error {
		guest, err := tx.GetGuest(ctx, in.GuestID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return Invalidf("guest %d does not exist", in.GuestID)
			}
			return fmt.Errorf("load guest: %w", err)
		}
		if err := tx.CreateReservation(ctx, &res); err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}
		booker := strings.TrimSpace(in.MainBookerName)
		if booker == "" {
			booker = guest.FullName()
		}
		seen := make(map[uint64]bool)
		for _, u := range requestedUnits(in) {
			if seen[u.RoomID] {
				continue
			}
			ok, err := s.bookUnit(ctx, tx, res.ID, u, booker)
			if err != nil {
				return err
			}
			if ok {
				seen[u.RoomID] = true
				booked = append(booked, u.RoomID)
			}
		}
		return appendHistory(ctx, tx, res.ID, res.Status, actor)
	})
	if err != nil {
		return 0, err
	}
	s.publish(ctx, res, 0, booked, model.BookedRoomStatus, actor)
	return res.ID, nil
}

// requestedUnits flattens the room selection.  Groups with a quantity below
// one and units beyond a group's quantity are dropped.  A room named twice
// is booked once by Insert.
func requestedUnits(in InsertReservation) []RoomUnit {
	if len(in.Rooms) == 0 {
		if in.RoomID == 0 {
			return nil
		}
		return []RoomUnit{{RoomID: in.RoomID}}
	}
	var out []RoomUnit
	for _, g := range in.Rooms {
		if g.Quantity < 1 {
			continue
		}
		units := g.Units
		if len(units) > g.Quantity {
			units = units[:g.Quantity]
		}
		out = append(out, units...)
	}
	return out
}

// bookUnit attaches one room to the reservation.  Units naming no room or a
// room that no longer exists are skipped and reported as not booked.
func (s *Reservations) bookUnit(ctx context.Context, tx ReservationTx, reservationID uint64, u RoomUnit, booker string) (bool, error) {
	if u.RoomID == 0 {
		return false, nil
	}
	if _, err := tx.GetRoom(ctx, u.RoomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load room %d: %w", u.RoomID, err)
	}
	rr := model.ReservedRoom{ReservationID: reservationID, RoomID: u.RoomID}
	if err := tx.CreateReservedRoom(ctx, &rr); err != nil {
		return false, fmt.Errorf("reserve room %d: %w", u.RoomID, err)
	}
	if err := tx.SetRoomStatus(ctx, u.RoomID, model.BookedRoomStatus); err != nil {
		return false, fmt.Errorf("set room %d status: %w", u.RoomID, err)
	}
	name := model.NormalizeName(u.OccupantName)
	if name != "" && !model.SameName(name, booker) {
		if err := tx.CreateCompanion(ctx, &model.Companion{ReservedRoomID: rr.ID, FullName: name}); err != nil {
			return false, fmt.Errorf("add companion: %w", err)
		}
	}
	return true, nil
}

// Update applies in to reservation id: guest contact, room swap, stay and
// status, then derives the current room's status from the reservation
// status and records a history row when the status changed.
func (s *Reservations) Update(ctx context.Context, actor model.Actor, id uint64, in UpdateReservation) error {
	var next model.ReservationStatus
	if in.StatusID != nil {
		next = model.ReservationStatus(*in.StatusID)
		if !next.Valid() {
			return Invalidf("reservation_status_id %d is not a known status", *in.StatusID)
		}
	}
	if err := validateTimes(in.CheckInTime, in.CheckOutTime); err != nil {
		return err
	}

	var (
		res        *model.Reservation
		prev       model.ReservationStatus
		currentID  uint64
		roomStatus model.RoomStatus
	)
	err := s.store.InTx(ctx, func(tx ReservationTx) error {
		var err error
		res, err = tx.LockReservation(ctx, id)
		if err != nil {
			return err
		}
		prev = res.Status

		if in.GuestID != nil && *in.GuestID != res.GuestID {
			if _, err := tx.GetGuest(ctx, *in.GuestID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return Invalidf("guest %d does not exist", *in.GuestID)
				}
				return fmt.Errorf("load guest: %w", err)
			}
			res.GuestID = *in.GuestID
		}
		if !in.GuestContact.Empty() {
			if err := tx.UpdateGuestContact(ctx, res.GuestID, in.GuestContact); err != nil {
				return fmt.Errorf("update guest contact: %w", err)
			}
		}

		currentID, err = s.swapRoom(ctx, tx, res.ID, in.RoomID)
		if err != nil {
			return err
		}

		if in.CheckIn != nil {
			res.CheckIn = *in.CheckIn
		}
		if in.CheckOut != nil {
			res.CheckOut = *in.CheckOut
		}
		if in.CheckIn != nil || in.CheckOut != nil {
			if err := validateStay(res.CheckIn, res.CheckOut); err != nil {
				return err
			}
		}
		if in.CheckInTime != nil {
			res.CheckInTime = blankToNil(in.CheckInTime)
		}
		if in.CheckOutTime != nil {
			res.CheckOutTime = blankToNil(in.CheckOutTime)
		}
		if in.StatusID != nil {
			res.Status = next
		}
		if err := tx.UpdateReservation(ctx, res); err != nil {
			return fmt.Errorf("update reservation: %w", err)
		}

		roomStatus = res.Status.RoomStatus()
		if currentID != 0 {
			if err := tx.SetRoomStatus(ctx, currentID, roomStatus); err != nil {
				return fmt.Errorf("set room %d status: %w", currentID, err)
			}
		}
		if res.Status != prev {
			return appendHistory(ctx, tx, res.ID, res.Status, actor)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if res.Status != prev {
		var rooms []uint64
		if currentID != 0 {
			rooms = []uint64{currentID}
		}
		s.publish(ctx, *res, prev, rooms, roomStatus, actor)
	}
	return nil
}

// swapRoom moves the reservation's current room to roomID when it differs
// and returns the id of the room that is current afterwards (0 when the
// reservation has none).
func (s *Reservations) swapRoom(ctx context.Context, tx ReservationTx, reservationID uint64, roomID *uint64) (uint64, error) {
	active, err := tx.ActiveReservedRooms(ctx, reservationID)
	if err != nil {
		return 0, fmt.Errorf("load reserved rooms: %w", err)
	}
	var current *model.ReservedRoom
	if len(active) > 0 {
		current = &active[0]
	}
	if roomID == nil || *roomID == 0 || (current != nil && current.RoomID == *roomID) {
		if current == nil {
			return 0, nil
		}
		return current.RoomID, nil
	}

	if _, err := tx.GetRoom(ctx, *roomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, Invalidf("room %d does not exist", *roomID)
		}
		return 0, fmt.Errorf("load room %d: %w", *roomID, err)
	}
	if current != nil {
		if _, err := tx.SoftDeleteReservedRoom(ctx, current.ID); err != nil {
			return 0, fmt.Errorf("release reserved room %d: %w", current.ID, err)
		}
		if err := tx.SetRoomStatus(ctx, current.RoomID, model.RoomAvailable); err != nil {
			return 0, fmt.Errorf("free room %d: %w", current.RoomID, err)
		}
	}
	_, err = tx.FindActiveReservedRoom(ctx, reservationID, *roomID)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		rr := model.ReservedRoom{ReservationID: reservationID, RoomID: *roomID}
		if err := tx.CreateReservedRoom(ctx, &rr); err != nil {
			return 0, fmt.Errorf("reserve room %d: %w", *roomID, err)
		}
	default:
		return 0, fmt.Errorf("find reserved room: %w", err)
	}
	return *roomID, nil
}

// Delete soft deletes a reservation with its reserved rooms and frees the
// rooms.  It reports 0 when the reservation was already deleted or never
// existed.
func (s *Reservations) Delete(ctx context.Context, id uint64) (int64, error) {
	var n int64
	err := s.store.InTx(ctx, func(tx ReservationTx) error {
		var err error
		n, err = tx.SoftDeleteReservation(ctx, id)
		if err != nil {
			return fmt.Errorf("delete reservation: %w", err)
		}
		if n == 0 {
			return nil
		}
		rooms, err := tx.SoftDeleteReservedRoomsByReservation(ctx, id)
		if err != nil {
			return fmt.Errorf("delete reserved rooms: %w", err)
		}
		for _, roomID := range rooms {
			if err := tx.SetRoomStatus(ctx, roomID, model.RoomAvailable); err != nil {
				return fmt.Errorf("free room %d: %w", roomID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ChangeBooker makes guestID the main booker of reservation id.  The
// previous booker is kept as a companion of the first room unless a
// companion with that name exists already; companions named like the new
// booker are removed.  It reports 0 when guestID already is the booker.
func (s *Reservations) ChangeBooker(ctx context.Context, id, guestID uint64) (int64, error) {
	if guestID == 0 {
		return 0, Invalidf("guest_id is required")
	}
	var changed int64
	err := s.store.InTx(ctx, func(tx ReservationTx) error {
		res, err := tx.LockReservation(ctx, id)
		if err != nil {
			return err
		}
		next, err := tx.GetGuest(ctx, guestID)
		if err != nil {
			return err
		}
		if res.GuestID == guestID {
			return nil
		}
		var prevName string
		if prev, err := tx.GetGuest(ctx, res.GuestID); err == nil {
			prevName = prev.FullName()
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("load previous guest: %w", err)
		}

		res.GuestID = guestID
		if err := tx.UpdateReservation(ctx, res); err != nil {
			return fmt.Errorf("reassign guest: %w", err)
		}
		if _, err := tx.SoftDeleteCompanionsByName(ctx, id, next.FullName()); err != nil {
			return fmt.Errorf("drop companion %q: %w", next.FullName(), err)
		}
		changed = 1
		if prevName == "" || model.SameName(prevName, next.FullName()) {
			return nil
		}
		return demote(ctx, tx, id, prevName)
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

// demote records name as a companion of the reservation's first room unless
// one of its rooms already lists it.
func demote(ctx context.Context, tx ReservationTx, reservationID uint64, name string) error {
	companions, err := tx.CompanionsByReservation(ctx, reservationID)
	if err != nil {
		return fmt.Errorf("load companions: %w", err)
	}
	for _, c := range companions {
		if model.SameName(c.FullName, name) {
			return nil
		}
	}
	rooms, err := tx.ActiveReservedRooms(ctx, reservationID)
	if err != nil {
		return fmt.Errorf("load reserved rooms: %w", err)
	}
	if len(rooms) == 0 {
		return nil
	}
	if err := tx.CreateCompanion(ctx, &model.Companion{ReservedRoomID: rooms[0].ID, FullName: name}); err != nil {
		return fmt.Errorf("add companion: %w", err)
	}
	return nil
}

func appendHistory(ctx context.Context, tx ReservationTx, reservationID uint64, st model.ReservationStatus, actor model.Actor) error {
	h := model.StatusHistory{ReservationID: reservationID, Status: st}
	if actor.UserID != 0 {
		uid := actor.UserID
		h.ChangedByUserID = &uid
	}
	if err := tx.AppendStatusHistory(ctx, &h); err != nil {
		return fmt.Errorf("append status history: %w", err)
	}
	return nil
}

func (s *Reservations) publish(ctx context.Context, res model.Reservation, prev model.ReservationStatus, rooms []uint64, rs model.RoomStatus, actor model.Actor) {
	if s.events == nil {
		return
	}
	if rooms == nil {
		rooms = []uint64{}
	}
	ev := queue.ReservationStatusChangedEvent{
		ReservationID:   res.ID,
		GuestID:         res.GuestID,
		PreviousStatus:  uint8(prev),
		Status:          uint8(res.Status),
		StatusName:      res.Status.String(),
		RoomIDs:         rooms,
		RoomStatus:      rs.String(),
		OutOfOrder:      prev != 0 && !prev.CanTransitionTo(res.Status),
		ChangedByUserID: actor.UserID,
		ChangedAt:       s.now().UTC().Format(time.RFC3339),
	}
	if err := s.events.PublishStatusChanged(ctx, ev); err != nil && s.logger != nil {
		s.logger.Warnf("reservation %d: status event not published: %v", res.ID, err)
	}
}

func validateStay(checkIn, checkOut string) error {
	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return Invalidf("check_in must be a date in YYYY-MM-DD format")
	}
	out, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return Invalidf("check_out must be a date in YYYY-MM-DD format")
	}
	if !out.After(in) {
		return Invalidf("check_out must be after check_in")
	}
	return nil
}

func validateTimes(times ...*string) error {
	for _, t := range times {
		if t == nil || strings.TrimSpace(*t) == "" {
			continue
		}
		if _, err := time.Parse(timeLayout, strings.TrimSpace(*t)); err != nil {
			return Invalidf("%q is not a time in HH:MM format", *t)
		}
	}
	return nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
