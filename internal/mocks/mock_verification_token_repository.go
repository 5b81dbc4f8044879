package mocks

import (
	"context"

	"github.com/you/authsvc/domain"
)

// MockVerificationTokenRepository implements domain.VerificationTokenRepository for testing.
type MockVerificationTokenRepository struct {
	CreateFunc                    func(ctx context.Context, token *domain.VerificationToken) error
	FindByTokenAndTypeFunc        func(ctx context.Context, token string, purpose domain.TokenPurpose, email string) (*domain.VerificationToken, error)
	DeleteByAccountAndPurposeFunc func(ctx context.Context, accountID string, purpose domain.TokenPurpose) error
	DeleteExpiredFunc             func(ctx context.Context) (int64, error)
}

// NewMockVerificationTokenRepository creates a new mock with default behaviors.
func NewMockVerificationTokenRepository() *MockVerificationTokenRepository {
	return &MockVerificationTokenRepository{}
}

func (m *MockVerificationTokenRepository) Create(ctx context.Context, token *domain.VerificationToken) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, token)
	}
	return nil
}

func (m *MockVerificationTokenRepository) FindByTokenAndType(ctx context.Context, token string, purpose domain.TokenPurpose, email string) (*domain.VerificationToken, error) {
	if m.FindByTokenAndTypeFunc != nil {
		return m.FindByTokenAndTypeFunc(ctx, token, purpose, email)
	}
	return nil, nil
}

func (m *MockVerificationTokenRepository) DeleteByAccountAndPurpose(ctx context.Context, accountID string, purpose domain.TokenPurpose) error {
	if m.DeleteByAccountAndPurposeFunc != nil {
		return m.DeleteByAccountAndPurposeFunc(ctx, accountID, purpose)
	}
	return nil
}

func (m *MockVerificationTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return 0, nil
}
