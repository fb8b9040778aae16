package service

import (
	"context"
	"errors"
	"sync"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// memStore is an in-memory ReservationStore.  InTx snapshots every table and
// restores the snapshot when fn fails.
type memStore struct {
	guests       map[uint64]model.Guest
	rooms        map[uint64]model.RoomListing
	reservations map[uint64]model.Reservation
	reserved     []model.ReservedRoom
	companions   []model.Companion
	history      []model.StatusHistory

	failOn string // name of a tx method that returns errBoom
}

var errBoom = errors.New("boom")

func newMemStore() *memStore {
	return &memStore{
		guests:       map[uint64]model.Guest{},
		rooms:        map[uint64]model.RoomListing{},
		reservations: map[uint64]model.Reservation{},
	}
}

func (m *memStore) addGuest(id uint64, first, last string) {
	m.guests[id] = model.Guest{ID: id, FirstName: first, LastName: last}
}

func (m *memStore) addRoom(id uint64, number string, st model.RoomStatus) {
	m.rooms[id] = model.RoomListing{Room: model.Room{ID: id, RoomNumber: number, RoomTypeID: 1, Status: st}}
}

func (m *memStore) InTx(ctx context.Context, fn func(tx ReservationTx) error) error {
	snap := m.snapshot()
	if err := fn(m); err != nil {
		*m = *snap
		return err
	}
	return nil
}

func (m *memStore) snapshot() *memStore {
	cp := &memStore{
		guests:       map[uint64]model.Guest{},
		rooms:        map[uint64]model.RoomListing{},
		reservations: map[uint64]model.Reservation{},
		reserved:     append([]model.ReservedRoom(nil), m.reserved...),
		companions:   append([]model.Companion(nil), m.companions...),
		history:      append([]model.StatusHistory(nil), m.history...),
		failOn:       m.failOn,
	}
	for k, v := range m.guests {
		cp.guests[k] = v
	}
	for k, v := range m.rooms {
		cp.rooms[k] = v
	}
	for k, v := range m.reservations {
		cp.reservations[k] = v
	}
	return cp
}

func (m *memStore) fail(op string) error {
	if m.failOn == op {
		return errBoom
	}
	return nil
}

func (m *memStore) GetGuest(ctx context.Context, id uint64) (*model.Guest, error) {
	g, ok := m.guests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (m *memStore) UpdateGuestContact(ctx context.Context, id uint64, c model.GuestContact) error {
	g, ok := m.guests[id]
	if !ok {
		return repository.ErrNotFound
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&g.FirstName, c.FirstName)
	set(&g.LastName, c.LastName)
	set(&g.Email, c.Email)
	set(&g.Phone, c.Phone)
	set(&g.Address, c.Address)
	m.guests[id] = g
	return nil
}

func (m *memStore) LockReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	r, ok := m.reservations[id]
	if !ok || r.IsDeleted {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (m *memStore) CreateReservation(ctx context.Context, r *model.Reservation) error {
	if err := m.fail("CreateReservation"); err != nil {
		return err
	}
	r.ID = uint64(len(m.reservations) + 1)
	m.reservations[r.ID] = *r
	return nil
}

func (m *memStore) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	if _, ok := m.reservations[r.ID]; !ok {
		return repository.ErrNotFound
	}
	m.reservations[r.ID] = *r
	return nil
}

func (m *memStore) SoftDeleteReservation(ctx context.Context, id uint64) (int64, error) {
	r, ok := m.reservations[id]
	if !ok || r.IsDeleted {
		return 0, nil
	}
	r.IsDeleted = true
	m.reservations[id] = r
	return 1, nil
}

func (m *memStore) GetRoom(ctx context.Context, id uint64) (*model.RoomListing, error) {
	rm, ok := m.rooms[id]
	if !ok || rm.IsDeleted {
		return nil, repository.ErrNotFound
	}
	return &rm, nil
}

func (m *memStore) SetRoomStatus(ctx context.Context, roomID uint64, s model.RoomStatus) error {
	if err := m.fail("SetRoomStatus"); err != nil {
		return err
	}
	rm, ok := m.rooms[roomID]
	if !ok {
		return nil
	}
	rm.Status = s
	m.rooms[roomID] = rm
	return nil
}

func (m *memStore) ActiveReservedRooms(ctx context.Context, reservationID uint64) ([]model.ReservedRoom, error) {
	var out []model.ReservedRoom
	for _, rr := range m.reserved {
		if rr.ReservationID == reservationID && !rr.IsDeleted {
			out = append(out, rr)
		}
	}
	return out, nil
}

func (m *memStore) FindActiveReservedRoom(ctx context.Context, reservationID, roomID uint64) (*model.ReservedRoom, error) {
	for _, rr := range m.reserved {
		if rr.ReservationID == reservationID && rr.RoomID == roomID && !rr.IsDeleted {
			return &rr, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) GetReservedRoom(ctx context.Context, id uint64) (*model.ReservedRoom, error) {
	for _, rr := range m.reserved {
		if rr.ID == id && !rr.IsDeleted {
			return &rr, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) CreateReservedRoom(ctx context.Context, rr *model.ReservedRoom) error {
	rr.ID = uint64(len(m.reserved) + 1)
	m.reserved = append(m.reserved, *rr)
	return nil
}

func (m *memStore) MoveReservedRoom(ctx context.Context, id, roomID uint64) error {
	for i := range m.reserved {
		if m.reserved[i].ID == id && !m.reserved[i].IsDeleted {
			m.reserved[i].RoomID = roomID
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) SoftDeleteReservedRoom(ctx context.Context, id uint64) (int64, error) {
	for i := range m.reserved {
		if m.reserved[i].ID == id && !m.reserved[i].IsDeleted {
			m.reserved[i].IsDeleted = true
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memStore) SoftDeleteReservedRoomsByReservation(ctx context.Context, reservationID uint64) ([]uint64, error) {
	var rooms []uint64
	for i := range m.reserved {
		if m.reserved[i].ReservationID == reservationID && !m.reserved[i].IsDeleted {
			m.reserved[i].IsDeleted = true
			rooms = append(rooms, m.reserved[i].RoomID)
		}
	}
	return rooms, nil
}

func (m *memStore) reservationOf(reservedRoomID uint64) uint64 {
	for _, rr := range m.reserved {
		if rr.ID == reservedRoomID {
			return rr.ReservationID
		}
	}
	return 0
}

func (m *memStore) CompanionsByReservation(ctx context.Context, reservationID uint64) ([]model.Companion, error) {
	var out []model.Companion
	for _, c := range m.companions {
		if !c.IsDeleted && m.reservationOf(c.ReservedRoomID) == reservationID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) CreateCompanion(ctx context.Context, c *model.Companion) error {
	c.ID = uint64(len(m.companions) + 1)
	m.companions = append(m.companions, *c)
	return nil
}

func (m *memStore) SoftDeleteCompanionsByName(ctx context.Context, reservationID uint64, fullName string) (int64, error) {
	var n int64
	for i, c := range m.companions {
		if !c.IsDeleted && m.reservationOf(c.ReservedRoomID) == reservationID && model.SameName(c.FullName, fullName) {
			m.companions[i].IsDeleted = true
			n++
		}
	}
	return n, nil
}

func (m *memStore) AppendStatusHistory(ctx context.Context, h *model.StatusHistory) error {
	if err := m.fail("AppendStatusHistory"); err != nil {
		return err
	}
	h.ID = uint64(len(m.history) + 1)
	m.history = append(m.history, *h)
	return nil
}

func (m *memStore) activeCompanions(reservationID uint64) []string {
	cs, _ := m.CompanionsByReservation(context.Background(), reservationID)
	out := []string{}
	for _, c := range cs {
		out = append(out, c.FullName)
	}
	return out
}

// recorder captures published events.
type recorder struct {
	mu     sync.Mutex
	events []queue.ReservationStatusChangedEvent
	err    error
}

func (r *recorder) PublishStatusChanged(ctx context.Context, ev queue.ReservationStatusChangedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}
