package service

import (
	"context"

	"gymclass/internal/domain/member"
	domain "gymclass/internal/domain/schedule"
	interfaces "gymclass/internal/interfaces/infrastructure"
	serviceInterfaces "gymclass/internal/interfaces/service"
	"gymclass/pkg/logger"

	"github.com/google/uuid"
)

var _ serviceInterfaces.RosterService = (*rosterService)(nil)

type rosterService struct {
	reader  interfaces.RosterReader
	repos   interfaces.RepoBundle
	members member.Directory
}

func NewRosterService(reader interfaces.RosterReader, repos interfaces.RepoBundle, members member.Directory) *rosterService {
	return &rosterService{
		reader:  reader,
		repos:   repos,
		members: members,
	}
}

// Roster projects the full attendance view of a session: every booking ever
// made (cancelled included, for audit), joined with member identity and a
// per-status summary. Recomputed on every call.
func (s *rosterService) Roster(ctx context.Context, sessionID uuid.UUID) (*serviceInterfaces.Roster, error) {
	sess, err := s.repos.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, domain.ErrSessionNotFound
	}

	rows, err := s.reader.RowsForSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	summary := make(map[domain.AttendanceStatus]int)
	out := make([]serviceInterfaces.RosterRow, 0, len(rows))
	for _, row := range rows {
		name := ""
		if m, err := s.members.GetByID(ctx, row.MemberID); err == nil && m != nil {
			name = m.FullName
		} else {
			logger.Debug("Member %s not found in directory for roster", row.MemberID)
		}

		summary[row.Attendance]++
		out = append(out, serviceInterfaces.RosterRow{
			BookingID:     row.BookingID,
			MemberID:      row.MemberID,
			MemberName:    name,
			BookingStatus: row.BookingStatus,
			Attendance:    row.Attendance,
			BookedAt:      row.BookedAt,
		})
	}

	confirmed, err := s.repos.Bookings.CountConfirmed(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	waiting, err := s.repos.Waitlist.CountWaiting(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &serviceInterfaces.Roster{
		SessionID: sessionID,
		Rows:      out,
		Summary:   summary,
		Occupancy: interfaces.SessionOccupancy{
			Confirmed: confirmed,
			Capacity:  sess.Capacity,
			Waiting:   waiting,
		},
	}, nil
}
