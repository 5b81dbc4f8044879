package mocks

import (
	"context"

	"github.com/you/authsvc/domain"
)

// MockAuthService implements domain.AuthService for handler tests.
type MockAuthService struct {
	RegisterFunc   func(ctx context.Context, email, password string, role domain.Role) (*domain.Account, error)
	SignInFunc     func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	RefreshFunc    func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	LogoutFunc     func(ctx context.Context, sessionID string) error
	GetAccountFunc func(ctx context.Context, accountID string) (*domain.Account, error)
}

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Register(ctx context.Context, email, password string, role domain.Role) (*domain.Account, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password, role)
	}
	return &domain.Account{Email: email, Role: role}, nil
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, password)
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return nil, domain.ErrInvalidRefreshToken
}

func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockAuthService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	if m.GetAccountFunc != nil {
		return m.GetAccountFunc(ctx, accountID)
	}
	return nil, domain.ErrAccountNotFound
}

// MockPasswordResetService implements domain.PasswordResetService for handler tests.
type MockPasswordResetService struct {
	ForgotPasswordFunc func(ctx context.Context, email string) error
	VerifyTokenFunc    func(ctx context.Context, email, token string, purpose domain.TokenPurpose) error
	ResetPasswordFunc  func(ctx context.Context, email, token, newPassword string) error
}

func NewMockPasswordResetService() *MockPasswordResetService {
	return &MockPasswordResetService{}
}

func (m *MockPasswordResetService) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return nil
}

func (m *MockPasswordResetService) VerifyToken(ctx context.Context, email, token string, purpose domain.TokenPurpose) error {
	if m.VerifyTokenFunc != nil {
		return m.VerifyTokenFunc(ctx, email, token, purpose)
	}
	return nil
}

func (m *MockPasswordResetService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email, token, newPassword)
	}
	return nil
}
