package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionOccupancy is the derived occupancy snapshot mirrored in the cache
// for listing endpoints. It is never an input to capacity decisions; the
// booking ledger is the sole authority.
type SessionOccupancy struct {
	Confirmed int `json:"confirmed"`
	Capacity  int `json:"capacity"`
	Waiting   int `json:"waiting"`
}

type CacheService interface {
	SetOccupancy(ctx context.Context, sessionID uuid.UUID, occ SessionOccupancy, ttl time.Duration) error
	GetOccupancy(ctx context.Context, sessionID uuid.UUID) (*SessionOccupancy, error)
	DeleteOccupancy(ctx context.Context, sessionID uuid.UUID) error
	Ping(ctx context.Context) error
}
