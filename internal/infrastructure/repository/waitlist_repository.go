package repository

import (
	"context"
	"time"

	domain "gymclass/internal/domain/schedule"
	interfaces "gymclass/internal/interfaces/infrastructure"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WaitlistRepository implements WaitlistRepository using GORM
type WaitlistRepository struct {
	db *gorm.DB
}

// NewWaitlistRepository creates a new GORM waitlist repository
func NewWaitlistRepository(db *gorm.DB) interfaces.WaitlistRepository {
	return &WaitlistRepository{
		db: db,
	}
}

func (r *WaitlistRepository) Create(ctx context.Context, entry *domain.WaitlistEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *WaitlistRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WaitlistEntry, error) {
	var entry domain.WaitlistEntry
	err := r.db.WithContext(ctx).First(&entry, "entry_id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *WaitlistRepository) GetWaitingByMemberAndSession(ctx context.Context, memberID, sessionID uuid.UUID) (*domain.WaitlistEntry, error) {
	var entry domain.WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND session_id = ? AND status = ?", memberID, sessionID, domain.WaitlistWaiting).
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// NextWaiting returns the queue head. Ordering is derived from join time
// with the entry id as a deterministic tie-break, never from a stored
// position column.
func (r *WaitlistRepository) NextWaiting(ctx context.Context, sessionID uuid.UUID) (*domain.WaitlistEntry, error) {
	var entry domain.WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND status = ?", sessionID, domain.WaitlistWaiting).
		Order("joined_at ASC, entry_id ASC").
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *WaitlistRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WaitlistStatus) error {
	return r.db.WithContext(ctx).Model(&domain.WaitlistEntry{}).
		Where("entry_id = ?", id).
		Update("status", status).Error
}

func (r *WaitlistRepository) CountWaiting(ctx context.Context, sessionID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.WaitlistEntry{}).
		Where("session_id = ? AND status = ?", sessionID, domain.WaitlistWaiting).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *WaitlistRepository) GetBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*domain.WaitlistEntry, error) {
	var entries []*domain.WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("joined_at ASC, entry_id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *WaitlistRepository) ExpireWaitingForSession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	result := r.db.WithContext(ctx).Model(&domain.WaitlistEntry{}).
		Where("session_id = ? AND status = ?", sessionID, domain.WaitlistWaiting).
		Update("status", domain.WaitlistExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func (r *WaitlistRepository) ExpireStale(ctx context.Context, cutoff time.Time) (int, error) {
	result := r.db.WithContext(ctx).Model(&domain.WaitlistEntry{}).
		Where("status = ? AND session_id IN (?)",
			domain.WaitlistWaiting,
			r.db.Model(&domain.ClassSession{}).Select("session_id").Where("starts_at <= ?", cutoff),
		).
		Update("status", domain.WaitlistExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}
