package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/you/authsvc/domain"
)

// AuthServiceImpl implements domain.AuthService.
type AuthServiceImpl struct {
	accountRepo domain.AccountRepository
	sessionRepo domain.SessionRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	throttle    domain.ThrottleStore
	events      domain.EventPublisher
	loginLimit  int
	loginWindow time.Duration
}

// AuthConfig carries the sign-in throttle settings.
type AuthConfig struct {
	LoginLimit  int
	LoginWindow time.Duration
}

// NewAuthService creates a new auth service.
func NewAuthService(
	accountRepo domain.AccountRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	throttle domain.ThrottleStore,
	events domain.EventPublisher,
	cfg AuthConfig,
) domain.AuthService {
	return &AuthServiceImpl{
		accountRepo: accountRepo,
		sessionRepo: sessionRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		throttle:    throttle,
		events:      events,
		loginLimit:  cfg.LoginLimit,
		loginWindow: cfg.LoginWindow,
	}
}

// Register implements domain.AuthService
func (s *AuthServiceImpl) Register(ctx context.Context, email, password string, role domain.Role) (*domain.Account, error) {
	existing, err := s.accountRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, domain.ErrAccountAlreadyExists
	}
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	hashed, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if role == "" {
		role = domain.RoleCustomer
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(email),
		PasswordHash: hashed,
		Role:         role,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.events.Publish(domain.NewEvent(domain.AccountRegisteredEvent, account.ID).WithEmail(account.Email))

	return account, nil
}

// SignIn implements domain.AuthService. When no account matches the email it
// still burns one password comparison against a fixed dummy hash, so "no
// such account" and "wrong password" cost the same wall-clock time.
func (s *AuthServiceImpl) SignIn(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if s.throttle != nil && s.loginLimit > 0 {
		allowed, _, err := s.throttle.Allow(ctx, "login:"+strings.ToLower(email), s.loginLimit, s.loginWindow)
		if err != nil {
			return nil, fmt.Errorf("failed to check login throttle: %w", err)
		}
		if !allowed {
			return nil, domain.ErrTooManyRequests
		}
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.passwordSvc.DummyVerify(password)
			s.events.Publish(domain.NewEvent(domain.SignInFailureEvent, "").WithEmail(email).WithError(domain.ErrInvalidCredentials))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if account.IsExternal() {
		return nil, domain.ErrWrongAuthMethod
	}

	if !s.passwordSvc.Verify(account.PasswordHash, password) {
		s.events.Publish(domain.NewEvent(domain.SignInFailureEvent, account.ID).WithEmail(email).WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		ExpiresAt: time.Now().Add(s.tokenSvc.RefreshTTL()),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	tokens, err := s.issueTokens(account, session.ID)
	if err != nil {
		return nil, err
	}

	s.events.Publish(domain.NewEvent(domain.SignInEvent, account.ID).WithEmail(account.Email).WithSession(session.ID))

	return &domain.AuthResult{
		Account:   account,
		Tokens:    tokens,
		SessionID: session.ID,
		ExpiresIn: int64(s.tokenSvc.AccessTTL().Seconds()),
	}, nil
}

// Refresh implements domain.AuthService. The session extension commits
// before any new token is signed: if the extension fails, no tokens are
// issued for a session whose new expiry never persisted.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if refreshToken == "" {
		return nil, domain.ErrMissingRefreshToken
	}

	claims, err := s.tokenSvc.VerifyToken(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidRefreshToken
	}

	if claims.SessionID == "" {
		return nil, domain.ErrMissingPayload
	}

	session, err := s.sessionRepo.FindByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	if session.IsExpired(time.Now()) {
		return nil, domain.ErrSessionExpired
	}

	account, err := s.accountRepo.FindByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	// Sliding window: the new expiry is measured from now, not from the
	// session's previous expiry.
	newExpiry := time.Now().Add(s.tokenSvc.RefreshTTL())
	if err := s.sessionRepo.Extend(ctx, session.ID, newExpiry); err != nil {
		return nil, fmt.Errorf("failed to extend session: %w", err)
	}
	session.ExpiresAt = newExpiry

	tokens, err := s.issueTokens(account, session.ID)
	if err != nil {
		return nil, err
	}

	s.events.Publish(domain.NewEvent(domain.SessionRefreshedEvent, account.ID).WithSession(session.ID))

	return &domain.AuthResult{
		Account:   account,
		Tokens:    tokens,
		SessionID: session.ID,
		ExpiresIn: int64(s.tokenSvc.AccessTTL().Seconds()),
	}, nil
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.events.Publish(domain.NewEvent(domain.LogoutEvent, "").WithSession(sessionID))
	return nil
}

// GetAccount implements domain.AuthService
func (s *AuthServiceImpl) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindByID(ctx, accountID)
}

func (s *AuthServiceImpl) issueTokens(account *domain.Account, sessionID string) (domain.TokenPair, error) {
	claims := &domain.TokenClaims{
		SessionID: sessionID,
		AccountID: account.ID,
		Email:     account.Email,
		Role:      account.Role,
	}

	accessToken, err := s.tokenSvc.SignAccessToken(claims)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := s.tokenSvc.SignRefreshToken(claims)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
