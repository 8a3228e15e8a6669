package repository

import (
	"context"
	"fmt"

	interfaces "gymclass/internal/interfaces/infrastructure"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

var _ interfaces.RosterReader = (*RosterRepository)(nil)

// RosterRepository serves the roster projection with a single sqlx join over
// the write-side tables. It rides the same connection pool as gorm.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository wraps the gorm connection's underlying *sql.DB with
// sqlx for the roster join query.
func NewRosterRepository(gormDB *gorm.DB) (*RosterRepository, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB for roster reads: %w", err)
	}
	return &RosterRepository{db: sqlx.NewDb(sqlDB, "pgx")}, nil
}

const rosterQuery = `
SELECT b.booking_id   AS booking_id,
       b.member_id    AS member_id,
       b.status       AS booking_status,
       a.status       AS attendance_status,
       b.created_at   AS booked_at
FROM bookings b
JOIN attendance_records a ON a.booking_id = b.booking_id
WHERE b.session_id = $1
ORDER BY b.created_at ASC, b.booking_id ASC`

func (r *RosterRepository) RowsForSession(ctx context.Context, sessionID uuid.UUID) ([]interfaces.RosterRow, error) {
	rows := make([]interfaces.RosterRow, 0)
	if err := r.db.SelectContext(ctx, &rows, rosterQuery, sessionID); err != nil {
		return nil, fmt.Errorf("failed to load roster rows: %w", err)
	}
	return rows, nil
}
