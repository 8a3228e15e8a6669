package schedule

import (
	"time"

	"github.com/google/uuid"
)

// ClassSession is a scheduled, time-bound class instance with a fixed seat
// capacity. Sessions are deactivated on cancellation, never deleted.
type ClassSession struct {
	SessionID uuid.UUID `json:"session_id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name      string    `json:"name" gorm:"not null"`
	Category  string    `json:"category"`
	TrainerID uuid.UUID `json:"trainer_id" gorm:"type:uuid;not null"`
	StartsAt  time.Time `json:"starts_at" gorm:"not null"`
	EndsAt    time.Time `json:"ends_at" gorm:"not null"`
	Capacity  int       `json:"capacity" gorm:"not null;check:capacity > 0"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	Version   int       `json:"version" gorm:"default:1"`
}

// BookingStatus is the seat-occupancy status of a booking.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Booking is a member's claim on a seat in a class session. A member holds at
// most one non-cancelled booking per session. Rows are soft state kept for
// roster history and audit.
type Booking struct {
	BookingID    uuid.UUID     `json:"booking_id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	SessionID    uuid.UUID     `json:"session_id" gorm:"type:uuid;not null"`
	MemberID     uuid.UUID     `json:"member_id" gorm:"type:uuid;not null"`
	Status       BookingStatus `json:"status" gorm:"type:text;not null;default:CONFIRMED"`
	CancelReason string        `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// WaitlistStatus is the lifecycle status of a waitlist entry.
type WaitlistStatus string

const (
	WaitlistWaiting  WaitlistStatus = "WAITING"
	WaitlistPromoted WaitlistStatus = "PROMOTED"
	WaitlistExpired  WaitlistStatus = "EXPIRED"
)

// WaitlistEntry is a queued seat request for a full session. Queue order is
// derived from JoinedAt (ties broken by the smaller EntryID), never from a
// stored index, so removals cannot resequence the queue.
type WaitlistEntry struct {
	EntryID   uuid.UUID      `json:"entry_id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	SessionID uuid.UUID      `json:"session_id" gorm:"type:uuid;not null"`
	MemberID  uuid.UUID      `json:"member_id" gorm:"type:uuid;not null"`
	Status    WaitlistStatus `json:"status" gorm:"type:text;not null;default:WAITING"`
	JoinedAt  time.Time      `json:"joined_at" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// AttendanceStatus is the per-booking lifecycle state tracked by staff.
type AttendanceStatus string

const (
	AttendanceBooked    AttendanceStatus = "BOOKED"
	AttendanceAttended  AttendanceStatus = "ATTENDED"
	AttendanceNoShow    AttendanceStatus = "NO_SHOW"
	AttendanceCancelled AttendanceStatus = "CANCELLED"
)

// AttendanceRecord tracks one booking's attendance state. Exactly one record
// exists per booking, created alongside the booking in state BOOKED.
type AttendanceRecord struct {
	BookingID uuid.UUID        `json:"booking_id" gorm:"type:uuid;primary_key"`
	SessionID uuid.UUID        `json:"session_id" gorm:"type:uuid;not null"`
	Status    AttendanceStatus `json:"status" gorm:"type:text;not null;default:BOOKED"`
	MarkedBy  string           `json:"marked_by,omitempty"`
	CreatedAt time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// IdempotencyRecord stores the first response produced for an Idempotency-Key
// so retried booking requests replay it instead of re-executing.
type IdempotencyRecord struct {
	Key          string    `json:"key"`
	RequestHash  string    `json:"request_hash"`
	ResponseData string    `json:"response_data"`
	StatusCode   int       `json:"status_code"`
	ProcessedAt  time.Time `json:"processed_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (k *IdempotencyRecord) IsExpired() bool {
	return time.Now().After(k.ExpiresAt)
}
