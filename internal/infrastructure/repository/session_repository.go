package repository

import (
	"context"

	domain "gymclass/internal/domain/schedule"
	interfaces "gymclass/internal/interfaces/infrastructure"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository implements SessionRepository using GORM
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new GORM class session repository
func NewSessionRepository(db *gorm.DB) interfaces.SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.ClassSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClassSession, error) {
	var session domain.ClassSession
	err := r.db.WithContext(ctx).First(&session, "session_id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// GetForUpdate locks the session row for the remainder of the surrounding
// transaction. Every mutating operation on a session's booking aggregate
// serializes on this lock.
func (r *SessionRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ClassSession, error) {
	var session domain.ClassSession
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&session, "session_id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.ClassSession) error {
	session.Version++
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *SessionRepository) GetActive(ctx context.Context) ([]*domain.ClassSession, error) {
	var sessions []*domain.ClassSession
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("starts_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
