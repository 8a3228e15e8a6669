package repository

import (
	"context"

	domain "gymclass/internal/domain/schedule"
	interfaces "gymclass/internal/interfaces/infrastructure"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttendanceRepository implements AttendanceRepository using GORM
type AttendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new GORM attendance repository
func NewAttendanceRepository(db *gorm.DB) interfaces.AttendanceRepository {
	return &AttendanceRepository{
		db: db,
	}
}

func (r *AttendanceRepository) Create(ctx context.Context, record *domain.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *AttendanceRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.AttendanceRecord, error) {
	var record domain.AttendanceRecord
	err := r.db.WithContext(ctx).First(&record, "booking_id = ?", bookingID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *AttendanceRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status domain.AttendanceStatus, markedBy string) error {
	updates := map[string]any{"status": status}
	if markedBy != "" {
		updates["marked_by"] = markedBy
	}
	return r.db.WithContext(ctx).Model(&domain.AttendanceRecord{}).
		Where("booking_id = ?", bookingID).
		Updates(updates).Error
}

func (r *AttendanceRepository) GetBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*domain.AttendanceRecord, error) {
	var records []*domain.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
