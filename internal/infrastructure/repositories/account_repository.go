package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/authsvc/domain"
)

// AccountRepositoryImpl implements domain.AccountRepository using GORM.
type AccountRepositoryImpl struct {
	db *gorm.DB
}

// DBAccount represents the database model for Account. Password and the
// provider pair are nullable: an account is either password-based or
// externally authenticated, never neither.
type DBAccount struct {
	ID                string  `gorm:"primaryKey;size:36"`
	Email             string  `gorm:"uniqueIndex;size:255;not null"`
	Password          *string `gorm:"size:255"`
	Role              string  `gorm:"index;size:32;not null"`
	ProviderID        *string `gorm:"size:64"`
	ProviderAccountID *string `gorm:"size:255"`
	EmailVerified     bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM.
func (DBAccount) TableName() string {
	return "accounts"
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(db *gorm.DB) domain.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// Create implements domain.AccountRepository
func (r *AccountRepositoryImpl) Create(ctx context.Context, account *domain.Account) error {
	dbAccount := r.domainToDB(account)
	if err := r.db.WithContext(ctx).Create(dbAccount).Error; err != nil {
		return err
	}
	account.CreatedAt = dbAccount.CreatedAt
	account.UpdatedAt = dbAccount.UpdatedAt
	return nil
}

// FindByEmail implements domain.AccountRepository. The match is exact but
// case-insensitive.
func (r *AccountRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&dbAccount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// FindByID implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbAccount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// UpdatePassword implements domain.AccountRepository
func (r *AccountRepositoryImpl) UpdatePassword(ctx context.Context, accountID, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&DBAccount{}).
		Where("id = ?", accountID).
		Update("password", passwordHash).Error
}

func (r *AccountRepositoryImpl) domainToDB(account *domain.Account) *DBAccount {
	dbAccount := &DBAccount{
		ID:            account.ID,
		Email:         account.Email,
		Role:          string(account.Role),
		EmailVerified: account.EmailVerified,
	}
	if account.PasswordHash != "" {
		dbAccount.Password = &account.PasswordHash
	}
	if account.ProviderID != "" {
		dbAccount.ProviderID = &account.ProviderID
		dbAccount.ProviderAccountID = &account.ProviderAccountID
	}
	return dbAccount
}

func (r *AccountRepositoryImpl) dbToDomain(dbAccount *DBAccount) *domain.Account {
	account := &domain.Account{
		ID:            dbAccount.ID,
		Email:         dbAccount.Email,
		Role:          domain.Role(dbAccount.Role),
		EmailVerified: dbAccount.EmailVerified,
		CreatedAt:     dbAccount.CreatedAt,
		UpdatedAt:     dbAccount.UpdatedAt,
	}
	if dbAccount.Password != nil {
		account.PasswordHash = *dbAccount.Password
	}
	if dbAccount.ProviderID != nil {
		account.ProviderID = *dbAccount.ProviderID
	}
	if dbAccount.ProviderAccountID != nil {
		account.ProviderAccountID = *dbAccount.ProviderAccountID
	}
	return account
}
