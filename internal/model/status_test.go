package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomStatusDerivation(t *testing.T) {
	cases := map[ReservationStatus]RoomStatus{
		ReservationPending:    RoomAvailable,
		ReservationConfirmed:  RoomReserved,
		ReservationCheckedIn:  RoomOccupied,
		ReservationCheckedOut: RoomAvailable,
		ReservationCancelled:  RoomAvailable,
	}
	for st, want := range cases {
		assert.Equal(t, want, st.RoomStatus(), st.String())
	}
	assert.Equal(t, RoomAvailable, ReservationStatus(9).RoomStatus())
}

func TestReservationStatusValid(t *testing.T) {
	for s := ReservationStatus(1); s <= 5; s++ {
		assert.True(t, s.Valid(), "status %d", s)
	}
	assert.False(t, ReservationStatus(0).Valid())
	assert.False(t, ReservationStatus(6).Valid())
	assert.Equal(t, "unknown", ReservationStatus(0).String())
	assert.Equal(t, "checked-in", ReservationCheckedIn.String())
}

func TestCanTransitionTo(t *testing.T) {
	assert.True(t, ReservationPending.CanTransitionTo(ReservationConfirmed))
	assert.True(t, ReservationConfirmed.CanTransitionTo(ReservationCheckedIn))
	assert.True(t, ReservationCheckedIn.CanTransitionTo(ReservationCheckedOut))
	assert.True(t, ReservationPending.CanTransitionTo(ReservationCancelled))
	assert.True(t, ReservationCheckedIn.CanTransitionTo(ReservationCheckedIn))

	assert.False(t, ReservationCheckedOut.CanTransitionTo(ReservationPending))
	assert.False(t, ReservationPending.CanTransitionTo(ReservationCheckedOut))
	assert.False(t, ReservationCancelled.CanTransitionTo(ReservationConfirmed))
}

func TestSameName(t *testing.T) {
	assert.True(t, SameName("Ana  Lima", " ana lima "))
	assert.False(t, SameName("Ana Lima", "Ana Limas"))
}

func TestGuestFullName(t *testing.T) {
	assert.Equal(t, "Ana Lima", Guest{FirstName: " Ana", LastName: "Lima "}.FullName())
	assert.Equal(t, "Ana", Guest{FirstName: "Ana"}.FullName())
}
