package interfaces

import (
	"context"
	"errors"
	"time"

	domain "gymclass/internal/domain/schedule"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *domain.ClassSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ClassSession, error)
	// GetForUpdate loads the session row under a FOR UPDATE lock. Only valid
	// inside a transaction; it is the serialization point for all mutating
	// operations on a session's booking aggregate.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ClassSession, error)
	Update(ctx context.Context, session *domain.ClassSession) error
	GetActive(ctx context.Context) ([]*domain.ClassSession, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	// GetConfirmedByMemberAndSession returns the member's non-cancelled
	// booking for the session, or nil.
	GetConfirmedByMemberAndSession(ctx context.Context, memberID, sessionID uuid.UUID) (*domain.Booking, error)
	CountConfirmed(ctx context.Context, sessionID uuid.UUID) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus, reason string) error
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*domain.Booking, error)
	GetByMemberID(ctx context.Context, memberID uuid.UUID) ([]*domain.Booking, error)
}

type WaitlistRepository interface {
	Create(ctx context.Context, entry *domain.WaitlistEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WaitlistEntry, error)
	// GetWaitingByMemberAndSession returns the member's WAITING entry for the
	// session, or nil.
	GetWaitingByMemberAndSession(ctx context.Context, memberID, sessionID uuid.UUID) (*domain.WaitlistEntry, error)
	// NextWaiting returns the head of the queue: the WAITING entry with the
	// earliest JoinedAt, ties broken by the lexicographically smaller EntryID.
	NextWaiting(ctx context.Context, sessionID uuid.UUID) (*domain.WaitlistEntry, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WaitlistStatus) error
	CountWaiting(ctx context.Context, sessionID uuid.UUID) (int, error)
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*domain.WaitlistEntry, error)
	// ExpireWaitingForSession flips every WAITING entry of the session to
	// EXPIRED, used on session deactivation.
	ExpireWaitingForSession(ctx context.Context, sessionID uuid.UUID) (int, error)
	// ExpireStale flips WAITING entries of sessions that started before the
	// cutoff to EXPIRED and returns how many were touched.
	ExpireStale(ctx context.Context, cutoff time.Time) (int, error)
}

type AttendanceRepository interface {
	Create(ctx context.Context, record *domain.AttendanceRecord) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.AttendanceRecord, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status domain.AttendanceStatus, markedBy string) error
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*domain.AttendanceRecord, error)
}

// RosterRow is one line of the roster read model: a booking joined with its
// attendance record.
type RosterRow struct {
	BookingID     uuid.UUID               `db:"booking_id"`
	MemberID      uuid.UUID               `db:"member_id"`
	BookingStatus domain.BookingStatus    `db:"booking_status"`
	Attendance    domain.AttendanceStatus `db:"attendance_status"`
	BookedAt      time.Time               `db:"booked_at"`
}

// RosterReader is the read-only projection over bookings and attendance. It
// is recomputed per request and never consulted for capacity decisions.
type RosterReader interface {
	RowsForSession(ctx context.Context, sessionID uuid.UUID) ([]RosterRow, error)
}

// RepoBundle groups the repositories participating in one atomic region.
type RepoBundle struct {
	Sessions   SessionRepository
	Bookings   BookingRepository
	Waitlist   WaitlistRepository
	Attendance AttendanceRepository
}

// TxManager runs fn inside a single storage transaction; every repository in
// the bundle handed to fn is bound to that transaction. Implementations
// translate retryable storage conflicts into schedule.ErrTxConflict.
type TxManager interface {
	InTx(ctx context.Context, fn func(r RepoBundle) error) error
}

// ErrIdempotencyKeyNotFound is returned by IdempotencyStore.GetByKey for
// unknown keys.
var ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")

type IdempotencyStore interface {
	Create(ctx context.Context, record *domain.IdempotencyRecord) error
	GetByKey(ctx context.Context, key string) (*domain.IdempotencyRecord, error)
	Delete(ctx context.Context, key string) error
}
