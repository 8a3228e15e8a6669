package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecideTransition_SameStateIsNoOp(t *testing.T) {
	for _, status := range []AttendanceStatus{AttendanceBooked, AttendanceAttended, AttendanceNoShow, AttendanceCancelled} {
		action, err := DecideTransition(status, status, true)
		assert.NoError(t, err)
		assert.Equal(t, SeatNone, action)
	}
}

func TestDecideTransition_AllowedEdges(t *testing.T) {
	tests := []struct {
		name     string
		current  AttendanceStatus
		request  AttendanceStatus
		seatHeld bool
		action   SeatAction
	}{
		{"booked to attended", AttendanceBooked, AttendanceAttended, true, SeatNone},
		{"booked to no-show", AttendanceBooked, AttendanceNoShow, true, SeatNone},
		{"booked to cancelled releases seat", AttendanceBooked, AttendanceCancelled, true, SeatRelease},
		{"attended reinstated to booked", AttendanceAttended, AttendanceBooked, true, SeatNone},
		{"attended corrected to no-show", AttendanceAttended, AttendanceNoShow, true, SeatNone},
		{"attended to cancelled releases seat", AttendanceAttended, AttendanceCancelled, true, SeatRelease},
		{"no-show corrected to attended", AttendanceNoShow, AttendanceAttended, true, SeatNone},
		{"no-show to cancelled releases held seat", AttendanceNoShow, AttendanceCancelled, true, SeatRelease},
		{"no-show to cancelled without seat is plain", AttendanceNoShow, AttendanceCancelled, false, SeatNone},
		{"no-show reinstated keeps held seat", AttendanceNoShow, AttendanceBooked, true, SeatNone},
		{"no-show reinstated without seat reacquires", AttendanceNoShow, AttendanceBooked, false, SeatReacquire},
		{"cancelled rebooked reacquires seat", AttendanceCancelled, AttendanceBooked, false, SeatReacquire},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := DecideTransition(tt.current, tt.request, tt.seatHeld)
			assert.NoError(t, err)
			assert.Equal(t, tt.action, action)
		})
	}
}

func TestDecideTransition_RejectedEdges(t *testing.T) {
	tests := []struct {
		name    string
		current AttendanceStatus
		request AttendanceStatus
	}{
		{"cancelled cannot be marked attended", AttendanceCancelled, AttendanceAttended},
		{"cancelled cannot be marked no-show", AttendanceCancelled, AttendanceNoShow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecideTransition(tt.current, tt.request, false)
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestValidAttendanceStatus(t *testing.T) {
	assert.True(t, ValidAttendanceStatus(AttendanceBooked))
	assert.True(t, ValidAttendanceStatus(AttendanceAttended))
	assert.True(t, ValidAttendanceStatus(AttendanceNoShow))
	assert.True(t, ValidAttendanceStatus(AttendanceCancelled))
	assert.False(t, ValidAttendanceStatus(AttendanceStatus("MAYBE")))
}
