package schedule

import "errors"

var (
	ErrSessionNotFound  = errors.New("class session not found")
	ErrSessionInactive  = errors.New("class session is not active")
	ErrSessionStarted   = errors.New("class session has already started")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrEntryNotFound    = errors.New("waitlist entry not found")
	ErrMemberNotFound   = errors.New("member not found")
	ErrDuplicateBooking = errors.New("member already holds a booking for this session")

	// ErrCapacityExceeded is returned when a rebook or promotion would push
	// confirmed bookings past the session capacity.
	ErrCapacityExceeded = errors.New("session capacity exceeded")

	// ErrCapacityBelowConfirmed rejects administrative capacity reductions
	// below the current confirmed-seat count.
	ErrCapacityBelowConfirmed = errors.New("capacity cannot drop below confirmed bookings")

	// ErrInvalidTransition is returned for attendance transitions outside the
	// allowed table, e.g. CANCELLED to ATTENDED.
	ErrInvalidTransition = errors.New("invalid attendance transition")

	// ErrIdempotencyKeyReused is returned when an Idempotency-Key is
	// presented again with a different booking request.
	ErrIdempotencyKeyReused = errors.New("idempotency key already used with different request data")

	// ErrBookingContention is surfaced after the transaction retry budget is
	// exhausted under heavy write contention. Callers may retry the request.
	ErrBookingContention = errors.New("booking contention, retry the request")

	// ErrTxConflict marks a retryable storage-level conflict (serialization
	// failure or deadlock). It never escapes the scheduling service.
	ErrTxConflict = errors.New("transaction conflict")
)
