package service

import (
	"context"
	"time"

	domain "gymclass/internal/domain/schedule"
	interfaces "gymclass/internal/interfaces/infrastructure"
	serviceInterfaces "gymclass/internal/interfaces/service"

	"github.com/google/uuid"
)

var _ serviceInterfaces.AttendanceService = (*attendanceService)(nil)

// attendanceService drives the attendance state machine. It is built on top
// of the scheduling service so seat-affecting transitions run under the same
// per-session serialization as bookings and promotions.
type attendanceService struct {
	sched *schedulingService
}

func NewAttendanceService(scheduling *schedulingService) *attendanceService {
	return &attendanceService{sched: scheduling}
}

func (s *attendanceService) Transition(ctx context.Context, bookingID uuid.UUID, req *serviceInterfaces.TransitionRequest) (*serviceInterfaces.TransitionResult, error) {
	if !domain.ValidAttendanceStatus(req.Status) {
		return nil, domain.ErrInvalidTransition
	}

	booking, err := s.sched.repos.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.ErrBookingNotFound
	}
	sessionID := booking.SessionID

	var (
		result *serviceInterfaces.TransitionResult
		jobs   []interfaces.NotificationJob
	)

	err = s.sched.runSerialized(ctx, sessionID, func(r interfaces.RepoBundle) error {
		jobs = jobs[:0]

		b, err := r.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrBookingNotFound
		}

		record, err := r.Attendance.GetByBookingID(ctx, bookingID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrBookingNotFound
		}

		seatHeld := b.Status == domain.BookingConfirmed
		action, err := domain.DecideTransition(record.Status, req.Status, seatHeld)
		if err != nil {
			return err
		}

		bookingStatus := b.Status
		var promotion *serviceInterfaces.PromotionResult

		switch action {
		case domain.SeatRelease:
			sess, err := r.Sessions.GetForUpdate(ctx, sessionID)
			if err != nil {
				return err
			}
			if sess == nil {
				return domain.ErrSessionNotFound
			}

			if err := r.Bookings.UpdateStatus(ctx, bookingID, domain.BookingCancelled, "attendance cancellation"); err != nil {
				return err
			}
			bookingStatus = domain.BookingCancelled
			jobs = append(jobs, interfaces.NotificationJob{
				Kind:      interfaces.NotifyBookingCancelled,
				SessionID: sessionID,
				MemberID:  b.MemberID,
				BookingID: bookingID,
				Reason:    "attendance cancellation",
				Timestamp: time.Now().UTC(),
			})

			promo, promoJobs, err := promoteHeadLocked(ctx, r, sess)
			if err != nil {
				return err
			}
			promotion = promo
			jobs = append(jobs, promoJobs...)

		case domain.SeatReacquire:
			sess, err := r.Sessions.GetForUpdate(ctx, sessionID)
			if err != nil {
				return err
			}
			if sess == nil {
				return domain.ErrSessionNotFound
			}

			// Rebooking a released seat goes through the same capacity gate
			// as a fresh booking; a promoted waitlist member keeps theirs.
			confirmed, err := r.Bookings.CountConfirmed(ctx, sessionID)
			if err != nil {
				return err
			}
			if confirmed >= sess.Capacity {
				return domain.ErrCapacityExceeded
			}

			if err := r.Bookings.UpdateStatus(ctx, bookingID, domain.BookingConfirmed, ""); err != nil {
				return err
			}
			bookingStatus = domain.BookingConfirmed
			jobs = append(jobs, interfaces.NotificationJob{
				Kind:      interfaces.NotifyBookingConfirmed,
				SessionID: sessionID,
				MemberID:  b.MemberID,
				BookingID: bookingID,
				Timestamp: time.Now().UTC(),
			})
		}

		if err := r.Attendance.UpdateStatus(ctx, bookingID, req.Status, req.MarkedBy); err != nil {
			return err
		}

		result = &serviceInterfaces.TransitionResult{
			BookingID:     bookingID,
			Status:        req.Status,
			BookingStatus: bookingStatus,
			Promotion:     promotion,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sched.dispatchJobs(ctx, jobs)
	s.sched.refreshOccupancy(ctx, sessionID)
	return result, nil
}

func (s *attendanceService) Get(ctx context.Context, bookingID uuid.UUID) (*domain.AttendanceRecord, error) {
	record, err := s.sched.repos.Attendance.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrBookingNotFound
	}
	return record, nil
}
