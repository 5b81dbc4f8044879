package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/authsvc/domain"
)

// VerificationTokenRepositoryImpl implements domain.VerificationTokenRepository
// using GORM.
type VerificationTokenRepositoryImpl struct {
	db *gorm.DB
}

// DBVerificationToken represents the database model for VerificationToken.
type DBVerificationToken struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Token     string    `gorm:"index;size:64;not null"`
	Purpose   string    `gorm:"index;size:32;not null"`
	AccountID string    `gorm:"index;size:36;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM.
func (DBVerificationToken) TableName() string {
	return "verification_tokens"
}

// NewVerificationTokenRepository creates a new verification token repository.
func NewVerificationTokenRepository(db *gorm.DB) domain.VerificationTokenRepository {
	return &VerificationTokenRepositoryImpl{db: db}
}

// Create implements domain.VerificationTokenRepository
func (r *VerificationTokenRepositoryImpl) Create(ctx context.Context, token *domain.VerificationToken) error {
	dbToken := &DBVerificationToken{
		ID:        token.ID,
		Token:     token.Token,
		Purpose:   string(token.Purpose),
		AccountID: token.AccountID,
		ExpiresAt: token.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(dbToken).Error; err != nil {
		return err
	}
	token.CreatedAt = dbToken.CreatedAt
	return nil
}

// FindByTokenAndType implements domain.VerificationTokenRepository. All three
// filters apply: token value, purpose and the owning account's email.
func (r *VerificationTokenRepositoryImpl) FindByTokenAndType(ctx context.Context, token string, purpose domain.TokenPurpose, email string) (*domain.VerificationToken, error) {
	var dbToken DBVerificationToken
	err := r.db.WithContext(ctx).
		Joins("JOIN accounts ON accounts.id = verification_tokens.account_id").
		Where("verification_tokens.token = ?", token).
		Where("verification_tokens.purpose = ?", string(purpose)).
		Where("LOWER(accounts.email) = LOWER(?)", email).
		First(&dbToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.VerificationToken{
		ID:        dbToken.ID,
		Token:     dbToken.Token,
		Purpose:   domain.TokenPurpose(dbToken.Purpose),
		AccountID: dbToken.AccountID,
		ExpiresAt: dbToken.ExpiresAt,
		CreatedAt: dbToken.CreatedAt,
	}, nil
}

// DeleteByAccountAndPurpose implements domain.VerificationTokenRepository.
// It removes every outstanding token of the purpose for the account, so an
// already-used code cannot be replayed and sibling codes from repeated
// requests die together.
func (r *VerificationTokenRepositoryImpl) DeleteByAccountAndPurpose(ctx context.Context, accountID string, purpose domain.TokenPurpose) error {
	return r.db.WithContext(ctx).
		Where("account_id = ? AND purpose = ?", accountID, string(purpose)).
		Delete(&DBVerificationToken{}).Error
}

// DeleteExpired implements domain.VerificationTokenRepository
func (r *VerificationTokenRepositoryImpl) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", time.Now()).Delete(&DBVerificationToken{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
