package service

import (
	"context"
	"time"

	domain "gymclass/internal/domain/schedule"
	infrastructure "gymclass/internal/interfaces/infrastructure"

	"github.com/google/uuid"
)

// Request/Response types for the scheduling API.

type BookRequest struct {
	MemberID       uuid.UUID `json:"member_id" validate:"required"`
	IdempotencyKey string    `json:"-"`
}

// BookOutcome is the authoritative result of a booking attempt. Waitlisting
// is a success outcome, not an error.
type BookOutcome struct {
	Status    string     `json:"status"` // CONFIRMED or WAITLISTED
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
	EntryID   *uuid.UUID `json:"waitlist_entry_id,omitempty"`
}

const (
	OutcomeConfirmed  = "CONFIRMED"
	OutcomeWaitlisted = "WAITLISTED"
)

// PromotionResult reports one promotion attempt. Promoted false with an
// empty MemberID means the queue was empty; Promoted false with a MemberID
// means the head entry stayed WAITING because the session was full.
type PromotionResult struct {
	Promoted  bool       `json:"promoted"`
	EntryID   *uuid.UUID `json:"entry_id,omitempty"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
	MemberID  *uuid.UUID `json:"member_id,omitempty"`
}

type CreateSessionRequest struct {
	Name      string    `json:"name" validate:"required"`
	Category  string    `json:"category"`
	TrainerID uuid.UUID `json:"trainer_id" validate:"required"`
	StartsAt  time.Time `json:"starts_at" validate:"required"`
	EndsAt    time.Time `json:"ends_at" validate:"required"`
	Capacity  int       `json:"capacity" validate:"required,gt=0"`
}

type UpdateSessionRequest struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Capacity *int    `json:"capacity,omitempty" validate:"omitempty,gt=0"`
}

type TransitionRequest struct {
	Status   domain.AttendanceStatus `json:"status" validate:"required"`
	MarkedBy string                  `json:"marked_by"`
}

// TransitionResult carries the authoritative post-transition state back to
// the caller; clients must not predict it.
type TransitionResult struct {
	BookingID     uuid.UUID               `json:"booking_id"`
	Status        domain.AttendanceStatus `json:"status"`
	BookingStatus domain.BookingStatus    `json:"booking_status"`
	Promotion     *PromotionResult        `json:"promotion,omitempty"`
}

type RosterRow struct {
	BookingID     uuid.UUID               `json:"booking_id"`
	MemberID      uuid.UUID               `json:"member_id"`
	MemberName    string                  `json:"member_name"`
	BookingStatus domain.BookingStatus    `json:"booking_status"`
	Attendance    domain.AttendanceStatus `json:"attendance"`
	BookedAt      time.Time               `json:"booked_at"`
}

type Roster struct {
	SessionID uuid.UUID                       `json:"session_id"`
	Rows      []RosterRow                     `json:"rows"`
	Summary   map[domain.AttendanceStatus]int `json:"summary"`
	Occupancy infrastructure.SessionOccupancy `json:"occupancy"`
}

// SessionWithOccupancy decorates a session with its derived live occupancy
// for listing endpoints.
type SessionWithOccupancy struct {
	*domain.ClassSession
	Occupancy infrastructure.SessionOccupancy `json:"occupancy"`
}

type SchedulingService interface {
	// Booking ledger and waitlist.
	Book(ctx context.Context, sessionID uuid.UUID, req *BookRequest) (*BookOutcome, error)
	Cancel(ctx context.Context, bookingID uuid.UUID, reason string) error
	PromoteHead(ctx context.Context, sessionID uuid.UUID) (*PromotionResult, error)
	Withdraw(ctx context.Context, entryID uuid.UUID) error

	// Session administration.
	CreateSession(ctx context.Context, req *CreateSessionRequest) (*domain.ClassSession, error)
	UpdateSession(ctx context.Context, sessionID uuid.UUID, req *UpdateSessionRequest) (*domain.ClassSession, error)
	DeactivateSession(ctx context.Context, sessionID uuid.UUID) error
	ListActiveSessions(ctx context.Context) ([]*SessionWithOccupancy, error)

	// Waitlist sweep (auto-expiry at session start, config-gated).
	ExpireStaleWaitlist(ctx context.Context) (int, error)
}

type AttendanceService interface {
	Transition(ctx context.Context, bookingID uuid.UUID, req *TransitionRequest) (*TransitionResult, error)
	Get(ctx context.Context, bookingID uuid.UUID) (*domain.AttendanceRecord, error)
}

type RosterService interface {
	Roster(ctx context.Context, sessionID uuid.UUID) (*Roster, error)
}
