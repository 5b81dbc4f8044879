package mocks

import (
	"time"

	"github.com/you/authsvc/domain"
)

// MockTokenService implements domain.TokenService for testing.
type MockTokenService struct {
	SignAccessTokenFunc  func(claims *domain.TokenClaims) (string, error)
	SignRefreshTokenFunc func(claims *domain.TokenClaims) (string, error)
	VerifyTokenFunc      func(token string) (*domain.TokenClaims, error)
	AccessTTLValue       time.Duration
	RefreshTTLValue      time.Duration
}

// NewMockTokenService creates a new MockTokenService with default behaviors.
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{
		AccessTTLValue:  15 * time.Minute,
		RefreshTTLValue: 14 * 24 * time.Hour,
	}
}

func (m *MockTokenService) SignAccessToken(claims *domain.TokenClaims) (string, error) {
	if m.SignAccessTokenFunc != nil {
		return m.SignAccessTokenFunc(claims)
	}
	return "access_" + claims.SessionID, nil
}

func (m *MockTokenService) SignRefreshToken(claims *domain.TokenClaims) (string, error) {
	if m.SignRefreshTokenFunc != nil {
		return m.SignRefreshTokenFunc(claims)
	}
	return "refresh_" + claims.SessionID, nil
}

func (m *MockTokenService) VerifyToken(token string) (*domain.TokenClaims, error) {
	if m.VerifyTokenFunc != nil {
		return m.VerifyTokenFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockTokenService) AccessTTL() time.Duration  { return m.AccessTTLValue }
func (m *MockTokenService) RefreshTTL() time.Duration { return m.RefreshTTLValue }
