package queue

import (
	"context"

	interfaces "gymclass/internal/interfaces/infrastructure"
	"gymclass/pkg/logger"

	"github.com/google/uuid"
)

var _ interfaces.NotificationGateway = (*LogNotifier)(nil)

// LogNotifier writes notifications to the application log. It stands in for
// a real delivery channel (push, email) until one is integrated.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) NotifyBookingConfirmed(ctx context.Context, memberID, sessionID, bookingID uuid.UUID) error {
	logger.Info("Notification: booking %s confirmed for member %s in session %s", bookingID, memberID, sessionID)
	return nil
}

func (n *LogNotifier) NotifyBookingCancelled(ctx context.Context, memberID, sessionID uuid.UUID, reason string) error {
	logger.Info("Notification: booking cancelled for member %s in session %s (reason: %s)", memberID, sessionID, reason)
	return nil
}

func (n *LogNotifier) NotifyWaitlisted(ctx context.Context, memberID, sessionID uuid.UUID) error {
	logger.Info("Notification: member %s waitlisted for session %s", memberID, sessionID)
	return nil
}

func (n *LogNotifier) NotifyPromotion(ctx context.Context, memberID, sessionID, bookingID uuid.UUID) error {
	logger.Info("Notification: member %s promoted from waitlist in session %s, booking %s", memberID, sessionID, bookingID)
	return nil
}
