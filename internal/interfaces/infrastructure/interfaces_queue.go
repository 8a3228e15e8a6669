package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotifyBookingConfirmed NotificationKind = "booking_confirmed"
	NotifyBookingCancelled NotificationKind = "booking_cancelled"
	NotifyWaitlisted       NotificationKind = "waitlisted"
	NotifyPromotion        NotificationKind = "promotion"
)

// NotificationJob is a member-facing message to dispatch. Jobs are enqueued
// only after the state change they describe has committed; dispatch is
// best-effort and never rolls anything back.
type NotificationJob struct {
	Kind      NotificationKind `json:"kind"`
	SessionID uuid.UUID        `json:"session_id"`
	MemberID  uuid.UUID        `json:"member_id"`
	BookingID uuid.UUID        `json:"booking_id,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// NotificationGateway is the external collaborator that delivers member
// messages. Transport (push, email) is out of scope; only the contract is.
type NotificationGateway interface {
	NotifyBookingConfirmed(ctx context.Context, memberID, sessionID, bookingID uuid.UUID) error
	NotifyBookingCancelled(ctx context.Context, memberID, sessionID uuid.UUID, reason string) error
	NotifyWaitlisted(ctx context.Context, memberID, sessionID uuid.UUID) error
	NotifyPromotion(ctx context.Context, memberID, sessionID, bookingID uuid.UUID) error
}

// QueueService decouples notification dispatch from the serialized booking
// path so gateway latency never holds the per-session lock.
type QueueService interface {
	Enqueue(ctx context.Context, job NotificationJob) error
	StartWorkers()
	StopWorkers()
}
