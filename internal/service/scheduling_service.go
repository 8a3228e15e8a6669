package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "gymclass/internal/domain/schedule"
	interfaces "gymclass/internal/interfaces/infrastructure"
	serviceInterfaces "gymclass/internal/interfaces/service"
	"gymclass/pkg/logger"

	"github.com/google/uuid"
)

const (
	occupancyTTL   = 5 * time.Minute
	idempotencyTTL = 24 * time.Hour
)

var _ serviceInterfaces.SchedulingService = (*schedulingService)(nil)

type schedulingService struct {
	repos interfaces.RepoBundle
	tx    interfaces.TxManager
	cache interfaces.CacheService
	queue interfaces.QueueService
	idem  interfaces.IdempotencyStore
	locks *sessionLocks

	retryBudget int
}

func NewSchedulingService(
	repos interfaces.RepoBundle,
	tx interfaces.TxManager,
	cache interfaces.CacheService,
	queue interfaces.QueueService,
	idem interfaces.IdempotencyStore,
	retryBudget int,
) *schedulingService {
	if retryBudget <= 0 {
		retryBudget = 3
	}
	return &schedulingService{
		repos:       repos,
		tx:          tx,
		cache:       cache,
		queue:       queue,
		idem:        idem,
		locks:       newSessionLocks(),
		retryBudget: retryBudget,
	}
}

// runSerialized is the atomic region for all mutating session operations:
// the per-session mutex serializes local writers, the transaction (with its
// FOR UPDATE session lock, taken by the closure) serializes across
// processes. Retryable conflicts are re-run up to the budget.
func (s *schedulingService) runSerialized(ctx context.Context, sessionID uuid.UUID, fn func(r interfaces.RepoBundle) error) error {
	lock := s.locks.forSession(sessionID)
	lock.Lock()
	defer lock.Unlock()

	var err error
	for attempt := 1; attempt <= s.retryBudget; attempt++ {
		err = s.tx.InTx(ctx, fn)
		if !errors.Is(err, domain.ErrTxConflict) {
			return err
		}
		logger.Warn("Transaction conflict on session %s, retrying (attempt %d/%d)", sessionID, attempt, s.retryBudget)
	}

	logger.Error("Retry budget exhausted for session %s: %v", sessionID, err)
	return domain.ErrBookingContention
}

func (s *schedulingService) Book(ctx context.Context, sessionID uuid.UUID, req *serviceInterfaces.BookRequest) (*serviceInterfaces.BookOutcome, error) {
	// The replay lookup is best-effort and runs off the session lock: two
	// concurrent requests sharing a key can both miss the store and fall
	// through to a normal booking attempt, where the loser surfaces the
	// usual duplicate error.
	if req.IdempotencyKey != "" {
		outcome, err := s.replayIdempotent(ctx, req.IdempotencyKey, sessionID, req.MemberID)
		if err != nil {
			return nil, err
		}
		if outcome != nil {
			logger.Info("Replayed booking response for idempotency key %s", req.IdempotencyKey)
			return outcome, nil
		}
	}

	var (
		outcome *serviceInterfaces.BookOutcome
		jobs    []interfaces.NotificationJob
	)

	err := s.runSerialized(ctx, sessionID, func(r interfaces.RepoBundle) error {
		outcome = nil
		jobs = jobs[:0]

		sess, err := r.Sessions.GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if sess == nil {
			return domain.ErrSessionNotFound
		}
		if !sess.Active {
			return domain.ErrSessionInactive
		}
		if !sess.StartsAt.After(time.Now().UTC()) {
			return domain.ErrSessionStarted
		}

		existing, err := r.Bookings.GetConfirmedByMemberAndSession(ctx, req.MemberID, sessionID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateBooking
		}

		waiting, err := r.Waitlist.GetWaitingByMemberAndSession(ctx, req.MemberID, sessionID)
		if err != nil {
			return err
		}
		if waiting != nil {
			// Joining the waitlist twice returns the existing entry.
			outcome = &serviceInterfaces.BookOutcome{
				Status:  serviceInterfaces.OutcomeWaitlisted,
				EntryID: &waiting.EntryID,
			}
			return nil
		}

		confirmed, err := r.Bookings.CountConfirmed(ctx, sessionID)
		if err != nil {
			return err
		}

		if confirmed < sess.Capacity {
			booking := &domain.Booking{
				BookingID: uuid.New(),
				SessionID: sessionID,
				MemberID:  req.MemberID,
				Status:    domain.BookingConfirmed,
			}
			if err := r.Bookings.Create(ctx, booking); err != nil {
				return err
			}
			record := &domain.AttendanceRecord{
				BookingID: booking.BookingID,
				SessionID: sessionID,
				Status:    domain.AttendanceBooked,
			}
			if err := r.Attendance.Create(ctx, record); err != nil {
				return err
			}

			outcome = &serviceInterfaces.BookOutcome{
				Status:    serviceInterfaces.OutcomeConfirmed,
				BookingID: &booking.BookingID,
			}
			jobs = append(jobs, interfaces.NotificationJob{
				Kind:      interfaces.NotifyBookingConfirmed,
				SessionID: sessionID,
				MemberID:  req.MemberID,
				BookingID: booking.BookingID,
				Timestamp: time.Now().UTC(),
			})
			return nil
		}

		entry := &domain.WaitlistEntry{
			EntryID:   uuid.New(),
			SessionID: sessionID,
			MemberID:  req.MemberID,
			Status:    domain.WaitlistWaiting,
			JoinedAt:  time.Now().UTC(),
		}
		if err := r.Waitlist.Create(ctx, entry); err != nil {
			return err
		}

		outcome = &serviceInterfaces.BookOutcome{
			Status:  serviceInterfaces.OutcomeWaitlisted,
			EntryID: &entry.EntryID,
		}
		jobs = append(jobs, interfaces.NotificationJob{
			Kind:      interfaces.NotifyWaitlisted,
			SessionID: sessionID,
			MemberID:  req.MemberID,
			Timestamp: time.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatchJobs(ctx, jobs)
	s.refreshOccupancy(ctx, sessionID)

	if req.IdempotencyKey != "" {
		s.storeIdempotent(ctx, req.IdempotencyKey, sessionID, req.MemberID, outcome)
	}

	return outcome, nil
}

func (s *schedulingService) Cancel(ctx context.Context, bookingID uuid.UUID, reason string) error {
	booking, err := s.repos.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return domain.ErrBookingNotFound
	}
	sessionID := booking.SessionID

	var jobs []interfaces.NotificationJob

	err = s.runSerialized(ctx, sessionID, func(r interfaces.RepoBundle) error {
		jobs = jobs[:0]

		b, err := r.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrBookingNotFound
		}
		if b.Status == domain.BookingCancelled {
			// Idempotent: the seat was already released and any promotion
			// already happened.
			return nil
		}

		sess, err := r.Sessions.GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if sess == nil {
			return domain.ErrSessionNotFound
		}

		if err := r.Bookings.UpdateStatus(ctx, bookingID, domain.BookingCancelled, reason); err != nil {
			return err
		}
		if err := r.Attendance.UpdateStatus(ctx, bookingID, domain.AttendanceCancelled, ""); err != nil {
			return err
		}
		jobs = append(jobs, interfaces.NotificationJob{
			Kind:      interfaces.NotifyBookingCancelled,
			SessionID: sessionID,
			MemberID:  b.MemberID,
			BookingID: bookingID,
			Reason:    reason,
			Timestamp: time.Now().UTC(),
		})

		// The freed seat goes to the waitlist head inside the same
		// transaction, so a concurrent Book cannot steal it.
		_, promoJobs, err := promoteHeadLocked(ctx, r, sess)
		if err != nil {
			return err
		}
		jobs = append(jobs, promoJobs...)
		return nil
	})
	if err != nil {
		return err
	}

	s.dispatchJobs(ctx, jobs)
	s.refreshOccupancy(ctx, sessionID)
	return nil
}

func (s *schedulingService) PromoteHead(ctx context.Context, sessionID uuid.UUID) (*serviceInterfaces.PromotionResult, error) {
	var (
		result *serviceInterfaces.PromotionResult
		jobs   []interfaces.NotificationJob
	)

	err := s.runSerialized(ctx, sessionID, func(r interfaces.RepoBundle) error {
		jobs = jobs[:0]

		sess, err := r.Sessions.GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if sess == nil {
			return domain.ErrSessionNotFound
		}

		result, jobs, err = promoteHeadLocked(ctx, r, sess)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatchJobs(ctx, jobs)
	s.refreshOccupancy(ctx, sessionID)
	return result, nil
}

// promoteHeadLocked attempts one promotion under the caller's session lock.
// When the session is still full the head entry stays WAITING; it is never
// skipped or expired, the next freed seat retries it.
func promoteHeadLocked(ctx context.Context, r interfaces.RepoBundle, sess *domain.ClassSession) (*serviceInterfaces.PromotionResult, []interfaces.NotificationJob, error) {
	head, err := r.Waitlist.NextWaiting(ctx, sess.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if head == nil {
		return &serviceInterfaces.PromotionResult{Promoted: false}, nil, nil
	}

	confirmed, err := r.Bookings.CountConfirmed(ctx, sess.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if confirmed >= sess.Capacity {
		return &serviceInterfaces.PromotionResult{
			Promoted: false,
			EntryID:  &head.EntryID,
			MemberID: &head.MemberID,
		}, nil, nil
	}

	booking := &domain.Booking{
		BookingID: uuid.New(),
		SessionID: sess.SessionID,
		MemberID:  head.MemberID,
		Status:    domain.BookingConfirmed,
	}
	if err := r.Bookings.Create(ctx, booking); err != nil {
		return nil, nil, err
	}
	record := &domain.AttendanceRecord{
		BookingID: booking.BookingID,
		SessionID: sess.SessionID,
		Status:    domain.AttendanceBooked,
	}
	if err := r.Attendance.Create(ctx, record); err != nil {
		return nil, nil, err
	}
	if err := r.Waitlist.UpdateStatus(ctx, head.EntryID, domain.WaitlistPromoted); err != nil {
		return nil, nil, err
	}

	jobs := []interfaces.NotificationJob{{
		Kind:      interfaces.NotifyPromotion,
		SessionID: sess.SessionID,
		MemberID:  head.MemberID,
		BookingID: booking.BookingID,
		Timestamp: time.Now().UTC(),
	}}
	return &serviceInterfaces.PromotionResult{
		Promoted:  true,
		EntryID:   &head.EntryID,
		BookingID: &booking.BookingID,
		MemberID:  &head.MemberID,
	}, jobs, nil
}

func (s *schedulingService) Withdraw(ctx context.Context, entryID uuid.UUID) error {
	entry, err := s.repos.Waitlist.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry == nil {
		return domain.ErrEntryNotFound
	}
	sessionID := entry.SessionID

	err = s.runSerialized(ctx, sessionID, func(r interfaces.RepoBundle) error {
		e, err := r.Waitlist.GetByID(ctx, entryID)
		if err != nil {
			return err
		}
		if e == nil {
			return domain.ErrEntryNotFound
		}
		if e.Status != domain.WaitlistWaiting {
			// Already promoted or expired; nothing to withdraw.
			return nil
		}
		return r.Waitlist.UpdateStatus(ctx, entryID, domain.WaitlistExpired)
	})
	if err != nil {
		return err
	}

	s.refreshOccupancy(ctx, sessionID)
	return nil
}

func (s *schedulingService) CreateSession(ctx context.Context, req *serviceInterfaces.CreateSessionRequest) (*domain.ClassSession, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, fmt.Errorf("session must end after it starts")
	}

	session := &domain.ClassSession{
		SessionID: uuid.New(),
		Name:      req.Name,
		Category:  req.Category,
		TrainerID: req.TrainerID,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Capacity:  req.Capacity,
		Active:    true,
		Version:   1,
	}
	if err := s.repos.Sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	logger.Info("Created class session %s (%s, capacity %d)", session.SessionID, session.Name, session.Capacity)
	s.refreshOccupancy(ctx, session.SessionID)
	return session, nil
}

func (s *schedulingService) UpdateSession(ctx context.Context, sessionID uuid.UUID, req *serviceInterfaces.UpdateSessionRequest) (*domain.ClassSession, error) {
	var (
		updated *domain.ClassSession
		jobs    []interfaces.NotificationJob
	)

	err := s.runSerialized(ctx, sessionID, func(r interfaces.RepoBundle) error {
		jobs = jobs[:0]

		sess, err := r.Sessions.GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if sess == nil {
			return domain.ErrSessionNotFound
		}

		if req.Name != nil {
			sess.Name = *req.Name
		}
		if req.Category != nil {
			sess.Category = *req.Category
		}

		capacityRaised := false
		if req.Capacity != nil && *req.Capacity != sess.Capacity {
			confirmed, err := r.Bookings.CountConfirmed(ctx, sessionID)
			if err != nil {
				return err
			}
			if *req.Capacity < confirmed {
				return domain.ErrCapacityBelowConfirmed
			}
			capacityRaised = *req.Capacity > sess.Capacity
			sess.Capacity = *req.Capacity
		}

		if err := r.Sessions.Update(ctx, sess); err != nil {
			return err
		}

		// A raise frees seats; promote waiting members into them now.
		if capacityRaised {
			for {
				result, promoJobs, err := promoteHeadLocked(ctx, r, sess)
				if err != nil {
					return err
				}
				if !result.Promoted {
					break
				}
				jobs = append(jobs, promoJobs...)
			}
		}

		updated = sess
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatchJobs(ctx, jobs)
	s.refreshOccupancy(ctx, sessionID)
	return updated, nil
}

func (s *schedulingService) DeactivateSession(ctx context.Context, sessionID uuid.UUID) error {
	err := s.runSerialized(ctx, sessionID, func(r interfaces.RepoBundle) error {
		sess, err := r.Sessions.GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if sess == nil {
			return domain.ErrSessionNotFound
		}
		if !sess.Active {
			return nil
		}

		sess.Active = false
		if err := r.Sessions.Update(ctx, sess); err != nil {
			return err
		}

		// Bookings stay for audit; the waitlist is drained terminally so no
		// promotion can fire on a dead session.
		expired, err := r.Waitlist.ExpireWaitingForSession(ctx, sessionID)
		if err != nil {
			return err
		}
		logger.Info("Deactivated session %s, expired %d waitlist entries", sessionID, expired)
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.cache.DeleteOccupancy(ctx, sessionID); err != nil {
		logger.Warn("Failed to drop occupancy mirror for session %s: %v", sessionID, err)
	}
	return nil
}

func (s *schedulingService) ListActiveSessions(ctx context.Context) ([]*serviceInterfaces.SessionWithOccupancy, error) {
	sessions, err := s.repos.Sessions.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*serviceInterfaces.SessionWithOccupancy, 0, len(sessions))
	for _, sess := range sessions {
		occ, err := s.cache.GetOccupancy(ctx, sess.SessionID)
		if err != nil || occ == nil {
			fresh, err := s.computeOccupancy(ctx, sess)
			if err != nil {
				return nil, err
			}
			occ = fresh
			if err := s.cache.SetOccupancy(ctx, sess.SessionID, *occ, occupancyTTL); err != nil {
				logger.Debug("Failed to mirror occupancy for session %s: %v", sess.SessionID, err)
			}
		}
		result = append(result, &serviceInterfaces.SessionWithOccupancy{
			ClassSession: sess,
			Occupancy:    *occ,
		})
	}
	return result, nil
}

func (s *schedulingService) ExpireStaleWaitlist(ctx context.Context) (int, error) {
	n, err := s.repos.Waitlist.ExpireStale(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info("Waitlist sweep expired %d entries for started sessions", n)
	}
	return n, nil
}

func (s *schedulingService) computeOccupancy(ctx context.Context, sess *domain.ClassSession) (*interfaces.SessionOccupancy, error) {
	confirmed, err := s.repos.Bookings.CountConfirmed(ctx, sess.SessionID)
	if err != nil {
		return nil, err
	}
	waiting, err := s.repos.Waitlist.CountWaiting(ctx, sess.SessionID)
	if err != nil {
		return nil, err
	}
	return &interfaces.SessionOccupancy{
		Confirmed: confirmed,
		Capacity:  sess.Capacity,
		Waiting:   waiting,
	}, nil
}

// refreshOccupancy recomputes the mirrored snapshot after a commit. Errors
// are logged and ignored; the mirror is never authoritative.
func (s *schedulingService) refreshOccupancy(ctx context.Context, sessionID uuid.UUID) {
	sess, err := s.repos.Sessions.GetByID(ctx, sessionID)
	if err != nil || sess == nil {
		return
	}
	occ, err := s.computeOccupancy(ctx, sess)
	if err != nil {
		logger.Debug("Failed to compute occupancy for session %s: %v", sessionID, err)
		return
	}
	if err := s.cache.SetOccupancy(ctx, sessionID, *occ, occupancyTTL); err != nil {
		logger.Debug("Failed to mirror occupancy for session %s: %v", sessionID, err)
	}
}

func (s *schedulingService) dispatchJobs(ctx context.Context, jobs []interfaces.NotificationJob) {
	for _, job := range jobs {
		if err := s.queue.Enqueue(ctx, job); err != nil {
			logger.Error("Failed to enqueue %s notification for member %s: %v", job.Kind, job.MemberID, err)
		}
	}
}

// bookRequestHash fingerprints a booking request so that a reused
// Idempotency-Key can be detected when it arrives with different data.
func bookRequestHash(sessionID, memberID uuid.UUID) string {
	sum := sha256.Sum256([]byte(sessionID.String() + ":" + memberID.String()))
	return hex.EncodeToString(sum[:])
}

func (s *schedulingService) replayIdempotent(ctx context.Context, key string, sessionID, memberID uuid.UUID) (*serviceInterfaces.BookOutcome, error) {
	rec, err := s.idem.GetByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, interfaces.ErrIdempotencyKeyNotFound) {
			logger.Warn("Idempotency lookup failed for key %s: %v", key, err)
		}
		return nil, nil
	}
	if rec == nil || rec.IsExpired() {
		return nil, nil
	}

	if rec.RequestHash != bookRequestHash(sessionID, memberID) {
		logger.Warn("Idempotency key %s used with different request data", key)
		return nil, domain.ErrIdempotencyKeyReused
	}

	var outcome serviceInterfaces.BookOutcome
	if err := json.Unmarshal([]byte(rec.ResponseData), &outcome); err != nil {
		logger.Warn("Stored idempotent response for key %s is unreadable: %v", key, err)
		return nil, nil
	}
	return &outcome, nil
}

func (s *schedulingService) storeIdempotent(ctx context.Context, key string, sessionID, memberID uuid.UUID, outcome *serviceInterfaces.BookOutcome) {
	data, err := json.Marshal(outcome)
	if err != nil {
		logger.Warn("Failed to marshal booking outcome for idempotency key %s: %v", key, err)
		return
	}

	now := time.Now().UTC()
	rec := &domain.IdempotencyRecord{
		Key:          key,
		RequestHash:  bookRequestHash(sessionID, memberID),
		ResponseData: string(data),
		StatusCode:   201,
		ProcessedAt:  now,
		ExpiresAt:    now.Add(idempotencyTTL),
	}
	if err := s.idem.Create(ctx, rec); err != nil {
		logger.Warn("Failed to store idempotent response for key %s: %v", key, err)
	}
}
