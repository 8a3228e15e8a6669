package service

import (
	"context"
	"sort"
	"testing"

	"gymclass/internal/domain/member"
	domain "gymclass/internal/domain/schedule"
	interfaces "gymclass/internal/interfaces/infrastructure"
	serviceInterfaces "gymclass/internal/interfaces/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRosterReader derives roster rows from the fake store, mirroring the
// SQL join the real repository runs.
type fakeRosterReader struct{ s *fakeStore }

func (r *fakeRosterReader) RowsForSession(ctx context.Context, sessionID uuid.UUID) ([]interfaces.RosterRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var rows []interfaces.RosterRow
	for _, b := range r.s.bookings {
		if b.SessionID != sessionID {
			continue
		}
		rec, ok := r.s.attendance[b.BookingID]
		if !ok {
			continue
		}
		rows = append(rows, interfaces.RosterRow{
			BookingID:     b.BookingID,
			MemberID:      b.MemberID,
			BookingStatus: b.Status,
			Attendance:    rec.Status,
			BookedAt:      b.CreatedAt,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].BookedAt.Before(rows[j].BookedAt) })
	return rows, nil
}

type fakeDirectory struct {
	members map[uuid.UUID]*member.Member
}

func (d *fakeDirectory) GetByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	m, ok := d.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	return m, nil
}

func (d *fakeDirectory) Search(ctx context.Context, query string, limit int) ([]*member.Member, error) {
	return nil, nil
}

func TestRoster_ProjectionWithSummary(t *testing.T) {
	sched, store, _, _ := newTestScheduling()
	att := NewAttendanceService(sched)
	sessionID := seedSession(t, store, 3)
	ctx := context.Background()

	memberA, outcomeA := mustBook(t, sched, sessionID)
	memberB, _ := mustBook(t, sched, sessionID)

	_, err := att.Transition(ctx, *outcomeA.BookingID, &serviceInterfaces.TransitionRequest{Status: domain.AttendanceAttended})
	require.NoError(t, err)

	directory := &fakeDirectory{members: map[uuid.UUID]*member.Member{
		memberA: {MemberID: memberA, FullName: "Ada Trainer"},
		memberB: {MemberID: memberB, FullName: "Ben Lifter"},
	}}
	roster := NewRosterService(&fakeRosterReader{store}, store.bundle(), directory)

	result, err := roster.Roster(ctx, sessionID)
	require.NoError(t, err)

	assert.Equal(t, sessionID, result.SessionID)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Ada Trainer", result.Rows[0].MemberName)
	assert.Equal(t, domain.AttendanceAttended, result.Rows[0].Attendance)
	assert.Equal(t, "Ben Lifter", result.Rows[1].MemberName)
	assert.Equal(t, domain.AttendanceBooked, result.Rows[1].Attendance)

	assert.Equal(t, 1, result.Summary[domain.AttendanceAttended])
	assert.Equal(t, 1, result.Summary[domain.AttendanceBooked])
	assert.Equal(t, 2, result.Occupancy.Confirmed)
	assert.Equal(t, 3, result.Occupancy.Capacity)
}

func TestRoster_UnknownSession(t *testing.T) {
	_, store, _, _ := newTestScheduling()
	roster := NewRosterService(&fakeRosterReader{store}, store.bundle(), &fakeDirectory{})

	_, err := roster.Roster(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

// Cancelled bookings remain visible on the roster for audit.
func TestRoster_KeepsCancelledRows(t *testing.T) {
	sched, store, _, _ := newTestScheduling()
	sessionID := seedSession(t, store, 2)
	ctx := context.Background()

	memberA, outcome := mustBook(t, sched, sessionID)
	require.NoError(t, sched.Cancel(ctx, *outcome.BookingID, "test"))

	directory := &fakeDirectory{members: map[uuid.UUID]*member.Member{
		memberA: {MemberID: memberA, FullName: "Ada Trainer"},
	}}
	roster := NewRosterService(&fakeRosterReader{store}, store.bundle(), directory)

	result, err := roster.Roster(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, domain.BookingCancelled, result.Rows[0].BookingStatus)
	assert.Equal(t, domain.AttendanceCancelled, result.Rows[0].Attendance)
	assert.Equal(t, 0, result.Occupancy.Confirmed)
}
