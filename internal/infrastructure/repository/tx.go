package repository

import (
	"context"
	"errors"
	"fmt"

	domain "gymclass/internal/domain/schedule"
	interfaces "gymclass/internal/interfaces/infrastructure"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var _ interfaces.TxManager = (*GormTxManager)(nil)

// GormTxManager runs atomic regions as database transactions and binds a
// fresh repository bundle to each one.
type GormTxManager struct {
	db *gorm.DB
}

func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

func (m *GormTxManager) InTx(ctx context.Context, fn func(r interfaces.RepoBundle) error) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bundle := interfaces.RepoBundle{
			Sessions:   NewSessionRepository(tx),
			Bookings:   NewBookingRepository(tx),
			Waitlist:   NewWaitlistRepository(tx),
			Attendance: NewAttendanceRepository(tx),
		}
		return fn(bundle)
	})
	if err != nil {
		return mapPgError(err)
	}
	return nil
}

// mapPgError translates storage-level failures into domain sentinels:
// serialization failures and deadlocks become the retryable ErrTxConflict,
// and a unique violation on the one-active-booking index becomes
// ErrDuplicateBooking.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return fmt.Errorf("%w: %s", domain.ErrTxConflict, pgErr.Message)
		case "23505":
			if pgErr.ConstraintName == "idx_one_active_booking" {
				return domain.ErrDuplicateBooking
			}
		}
	}
	return err
}
