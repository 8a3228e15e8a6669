package member

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Member is a row in the gym's member directory. The directory itself is an
// external collaborator; this service only reads it for roster display and
// the quick-add search flow.
type Member struct {
	MemberID uuid.UUID `json:"member_id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Active   bool      `json:"active"`
	JoinedAt time.Time `json:"joined_at"`
}

// Directory provides read access to the member directory.
type Directory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	Search(ctx context.Context, query string, limit int) ([]*Member, error)
}
