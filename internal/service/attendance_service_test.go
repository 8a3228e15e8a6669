package service

import (
	"context"
	"testing"

	domain "gymclass/internal/domain/schedule"
	interfaces "gymclass/internal/interfaces/infrastructure"
	serviceInterfaces "gymclass/internal/interfaces/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAttendance() (*attendanceService, *schedulingService, *fakeStore, *fakeQueue) {
	sched, store, queue, _ := newTestScheduling()
	return NewAttendanceService(sched), sched, store, queue
}

func TestTransition_CheckInAndReinstate(t *testing.T) {
	att, sched, store, _ := newTestAttendance()
	sessionID := seedSession(t, store, 2)
	ctx := context.Background()

	_, outcome := mustBook(t, sched, sessionID)
	bookingID := *outcome.BookingID

	result, err := att.Transition(ctx, bookingID, &serviceInterfaces.TransitionRequest{
		Status:   domain.AttendanceAttended,
		MarkedBy: "front-desk",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AttendanceAttended, result.Status)
	assert.Equal(t, domain.BookingConfirmed, result.BookingStatus)

	record, err := att.Get(ctx, bookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.AttendanceAttended, record.Status)
	assert.Equal(t, "front-desk", record.MarkedBy)

	// Mistaken check-in rolled back to BOOKED keeps the seat.
	result, err = att.Transition(ctx, bookingID, &serviceInterfaces.TransitionRequest{Status: domain.AttendanceBooked})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, result.BookingStatus)

	confirmed, err := store.bundle().Bookings.CountConfirmed(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, confirmed)
}

func TestTransition_SameStateIsNoOp(t *testing.T) {
	att, sched, store, _ := newTestAttendance()
	sessionID := seedSession(t, store, 1)

	_, outcome := mustBook(t, sched, sessionID)

	result, err := att.Transition(context.Background(), *outcome.BookingID, &serviceInterfaces.TransitionRequest{
		Status: domain.AttendanceBooked,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AttendanceBooked, result.Status)
	assert.Equal(t, domain.BookingConfirmed, result.BookingStatus)
}

func TestTransition_CancellationReleasesSeatAndPromotes(t *testing.T) {
	att, sched, store, queue := newTestAttendance()
	sessionID := seedSession(t, store, 1)
	ctx := context.Background()

	_, outcome := mustBook(t, sched, sessionID)
	memberWaiting, _ := mustBook(t, sched, sessionID)

	result, err := att.Transition(ctx, *outcome.BookingID, &serviceInterfaces.TransitionRequest{
		Status:   domain.AttendanceCancelled,
		MarkedBy: "trainer",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, result.BookingStatus)
	require.NotNil(t, result.Promotion)
	assert.True(t, result.Promotion.Promoted)
	assert.Equal(t, memberWaiting, *result.Promotion.MemberID)

	confirmed, err := store.bundle().Bookings.CountConfirmed(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, confirmed)

	assert.Len(t, queue.jobsOfKind(interfaces.NotifyPromotion), 1)
}

func TestTransition_NoShowKeepsSeat(t *testing.T) {
	att, sched, store, _ := newTestAttendance()
	sessionID := seedSession(t, store, 1)
	ctx := context.Background()

	_, outcome := mustBook(t, sched, sessionID)
	mustBook(t, sched, sessionID)

	result, err := att.Transition(ctx, *outcome.BookingID, &serviceInterfaces.TransitionRequest{Status: domain.AttendanceNoShow})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, result.BookingStatus)
	assert.Nil(t, result.Promotion)

	// No seat was released, so the waitlist is untouched.
	waiting, err := store.bundle().Waitlist.CountWaiting(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, waiting)
}

func TestTransition_RebookAfterCancelRespectsCapacity(t *testing.T) {
	att, sched, store, _ := newTestAttendance()
	sessionID := seedSession(t, store, 1)
	ctx := context.Background()

	_, outcome := mustBook(t, sched, sessionID)
	bookingID := *outcome.BookingID
	mustBook(t, sched, sessionID)

	// Cancel hands the seat to the waitlisted member.
	_, err := att.Transition(ctx, bookingID, &serviceInterfaces.TransitionRequest{Status: domain.AttendanceCancelled})
	require.NoError(t, err)

	// Rebooking must fail: the promoted member holds the only seat now.
	_, err = att.Transition(ctx, bookingID, &serviceInterfaces.TransitionRequest{Status: domain.AttendanceBooked})
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	confirmed, err := store.bundle().Bookings.CountConfirmed(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, confirmed)
}

func TestTransition_RebookSucceedsWhenSeatFree(t *testing.T) {
	att, sched, store, _ := newTestAttendance()
	sessionID := seedSession(t, store, 1)
	ctx := context.Background()

	_, outcome := mustBook(t, sched, sessionID)
	bookingID := *outcome.BookingID

	_, err := att.Transition(ctx, bookingID, &serviceInterfaces.TransitionRequest{Status: domain.AttendanceCancelled})
	require.NoError(t, err)

	result, err := att.Transition(ctx, bookingID, &serviceInterfaces.TransitionRequest{Status: domain.AttendanceBooked})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, result.BookingStatus)
	assert.Equal(t, domain.AttendanceBooked, result.Status)

	confirmed, err := store.bundle().Bookings.CountConfirmed(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, confirmed)
}

func TestTransition_IllegalFromCancelled(t *testing.T) {
	att, sched, store, _ := newTestAttendance()
	sessionID := seedSession(t, store, 1)
	ctx := context.Background()

	_, outcome := mustBook(t, sched, sessionID)
	bookingID := *outcome.BookingID

	_, err := att.Transition(ctx, bookingID, &serviceInterfaces.TransitionRequest{Status: domain.AttendanceCancelled})
	require.NoError(t, err)

	_, err = att.Transition(ctx, bookingID, &serviceInterfaces.TransitionRequest{Status: domain.AttendanceAttended})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = att.Transition(ctx, bookingID, &serviceInterfaces.TransitionRequest{Status: domain.AttendanceNoShow})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransition_UnknownStatusAndBooking(t *testing.T) {
	att, sched, store, _ := newTestAttendance()
	sessionID := seedSession(t, store, 1)
	ctx := context.Background()

	_, outcome := mustBook(t, sched, sessionID)

	_, err := att.Transition(ctx, *outcome.BookingID, &serviceInterfaces.TransitionRequest{Status: domain.AttendanceStatus("MAYBE")})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = att.Transition(ctx, uuid.New(), &serviceInterfaces.TransitionRequest{Status: domain.AttendanceAttended})
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}
