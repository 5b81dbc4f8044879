package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/authsvc/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using GORM.
// Sessions live in the relational store so that an expired-but-unswept
// session stays distinguishable from one that never existed.
type SessionRepositoryImpl struct {
	db *gorm.DB
}

// DBSession represents the database model for Session.
type DBSession struct {
	ID        string    `gorm:"primaryKey;size:36"`
	AccountID string    `gorm:"index;size:36;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (DBSession) TableName() string {
	return "sessions"
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *gorm.DB) domain.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	dbSession := &DBSession{
		ID:        session.ID,
		AccountID: session.AccountID,
		ExpiresAt: session.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(dbSession).Error; err != nil {
		return err
	}
	session.CreatedAt = dbSession.CreatedAt
	session.UpdatedAt = dbSession.UpdatedAt
	return nil
}

// FindByID implements domain.SessionRepository. Expired sessions are
// returned as-is; the caller decides how to treat them.
func (r *SessionRepositoryImpl) FindByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	var dbSession DBSession
	err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&dbSession).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &domain.Session{
		ID:        dbSession.ID,
		AccountID: dbSession.AccountID,
		ExpiresAt: dbSession.ExpiresAt,
		CreatedAt: dbSession.CreatedAt,
		UpdatedAt: dbSession.UpdatedAt,
	}, nil
}

// Extend implements domain.SessionRepository
func (r *SessionRepositoryImpl) Extend(ctx context.Context, sessionID string, expiresAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&DBSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"expires_at": expiresAt,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// Delete implements domain.SessionRepository
func (r *SessionRepositoryImpl) Delete(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Where("id = ?", sessionID).Delete(&DBSession{}).Error
}

// DeleteExpired implements domain.SessionRepository. Deleting zero rows is
// not an error.
func (r *SessionRepositoryImpl) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", time.Now()).Delete(&DBSession{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
