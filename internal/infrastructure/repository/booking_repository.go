package repository

import (
	"context"

	domain "gymclass/internal/domain/schedule"
	interfaces "gymclass/internal/interfaces/infrastructure"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingRepository implements BookingRepository using GORM
type BookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new GORM booking repository
func NewBookingRepository(db *gorm.DB) interfaces.BookingRepository {
	return &BookingRepository{
		db: db,
	}
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var booking domain.Booking
	err := r.db.WithContext(ctx).First(&booking, "booking_id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) GetConfirmedByMemberAndSession(ctx context.Context, memberID, sessionID uuid.UUID) (*domain.Booking, error) {
	var booking domain.Booking
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND session_id = ? AND status = ?", memberID, sessionID, domain.BookingConfirmed).
		First(&booking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) CountConfirmed(ctx context.Context, sessionID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("session_id = ? AND status = ?", sessionID, domain.BookingConfirmed).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus, reason string) error {
	updates := map[string]any{"status": status}
	if reason != "" {
		updates["cancel_reason"] = reason
	}
	return r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("booking_id = ?", id).
		Updates(updates).Error
}

func (r *BookingRepository) GetBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) GetByMemberID(ctx context.Context, memberID uuid.UUID) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
