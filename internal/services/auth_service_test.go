package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/mocks"
)

type authFixture struct {
	accountRepo *mocks.MockAccountRepository
	sessionRepo *mocks.MockSessionRepository
	passwordSvc *mocks.MockPasswordService
	tokenSvc    *mocks.MockTokenService
	throttle    *mocks.MockThrottleStore
	events      *mocks.MockEventPublisher
	svc         domain.AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		accountRepo: mocks.NewMockAccountRepository(),
		sessionRepo: mocks.NewMockSessionRepository(),
		passwordSvc: mocks.NewMockPasswordService(),
		tokenSvc:    mocks.NewMockTokenService(),
		throttle:    mocks.NewMockThrottleStore(),
		events:      mocks.NewMockEventPublisher(),
	}
	f.svc = NewAuthService(f.accountRepo, f.sessionRepo, f.passwordSvc, f.tokenSvc, f.throttle, f.events, AuthConfig{
		LoginLimit:  10,
		LoginWindow: time.Minute,
	})
	return f
}

func validAccount() *domain.Account {
	return &domain.Account{
		ID:           "acc-1",
		Email:        "joe@example.com",
		PasswordHash: "hashed_correct-password",
		Role:         domain.RoleCustomer,
	}
}

func externalAccount() *domain.Account {
	return &domain.Account{
		ID:         "acc-2",
		Email:      "oauth@example.com",
		Role:       domain.RoleCustomer,
		ProviderID: "google",
	}
}

func TestAuthServiceImpl_SignIn(t *testing.T) {
	tests := []struct {
		name           string
		email          string
		password       string
		setup          func(f *authFixture)
		expectedError  error
		validateResult func(t *testing.T, f *authFixture, result *domain.AuthResult)
	}{
		{
			name:     "successful sign in",
			email:    "joe@example.com",
			password: "correct-password",
			setup: func(f *authFixture) {
				f.accountRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
					return validAccount(), nil
				}
			},
			validateResult: func(t *testing.T, f *authFixture, result *domain.AuthResult) {
				if result == nil {
					t.Fatal("result is nil")
				}
				if result.SessionID == "" {
					t.Error("expected a session id")
				}
				if result.Tokens.AccessToken != "access_"+result.SessionID {
					t.Errorf("access token not bound to session: %s", result.Tokens.AccessToken)
				}
				if result.Tokens.RefreshToken != "refresh_"+result.SessionID {
					t.Errorf("refresh token not bound to session: %s", result.Tokens.RefreshToken)
				}
				if result.ExpiresIn != int64((15 * time.Minute).Seconds()) {
					t.Errorf("expected expires_in %d, got %d", int64((15*time.Minute).Seconds()), result.ExpiresIn)
				}
				if len(f.events.ByType(domain.SignInEvent)) != 1 {
					t.Error("expected a sign-in event")
				}
			},
		},
		{
			name:     "session expiry matches refresh ttl",
			email:    "joe@example.com",
			password: "correct-password",
			setup: func(f *authFixture) {
				f.accountRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
					return validAccount(), nil
				}
				f.sessionRepo.CreateFunc = func(ctx context.Context, session *domain.Session) error {
					want := time.Now().Add(14 * 24 * time.Hour)
					if session.ExpiresAt.Before(want.Add(-5*time.Second)) || session.ExpiresAt.After(want.Add(5*time.Second)) {
						t.Errorf("session expiry %v not near now+refresh ttl", session.ExpiresAt)
					}
					return nil
				}
			},
		},
		{
			name:     "wrong password",
			email:    "joe@example.com",
			password: "wrong-password",
			setup: func(f *authFixture) {
				f.accountRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
					return validAccount(), nil
				}
			},
			expectedError: domain.ErrInvalidCredentials,
			validateResult: func(t *testing.T, f *authFixture, result *domain.AuthResult) {
				if len(f.events.ByType(domain.SignInFailureEvent)) != 1 {
					t.Error("expected a sign-in failure event")
				}
			},
		},
		{
			name:          "unknown email burns a dummy compare",
			email:         "nobody@example.com",
			password:      "whatever",
			setup:         func(f *authFixture) {},
			expectedError: domain.ErrInvalidCredentials,
			validateResult: func(t *testing.T, f *authFixture, result *domain.AuthResult) {
				if f.passwordSvc.DummyVerifyCalls != 1 {
					t.Errorf("expected 1 dummy verify call, got %d", f.passwordSvc.DummyVerifyCalls)
				}
			},
		},
		{
			name:     "external account rejects password sign in",
			email:    "oauth@example.com",
			password: "whatever",
			setup: func(f *authFixture) {
				f.accountRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
					return externalAccount(), nil
				}
			},
			expectedError: domain.ErrWrongAuthMethod,
		},
		{
			name:     "throttled",
			email:    "joe@example.com",
			password: "correct-password",
			setup: func(f *authFixture) {
				f.throttle.AllowFunc = func(ctx context.Context, key string, limit int, window time.Duration) (bool, int64, error) {
					if key != "login:joe@example.com" {
						t.Errorf("unexpected throttle key %s", key)
					}
					return false, 42, nil
				}
			},
			expectedError: domain.ErrTooManyRequests,
		},
		{
			name:     "session creation fails",
			email:    "joe@example.com",
			password: "correct-password",
			setup: func(f *authFixture) {
				f.accountRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
					return validAccount(), nil
				}
				f.sessionRepo.CreateFunc = func(ctx context.Context, session *domain.Session) error {
					return errors.New("database error")
				}
			},
			expectedError: errors.New("failed to create session"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			tt.setup(f)

			result, err := f.svc.SignIn(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				if err == nil {
					t.Fatalf("expected error %v, got nil", tt.expectedError)
				}
				if !errors.Is(err, tt.expectedError) && !strings.Contains(err.Error(), tt.expectedError.Error()) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				if result != nil {
					t.Error("expected nil result on error")
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.validateResult != nil {
				tt.validateResult(t, f, result)
			}
		})
	}
}

func TestAuthServiceImpl_Refresh(t *testing.T) {
	liveSession := func() *domain.Session {
		return &domain.Session{
			ID:        "sess-1",
			AccountID: "acc-1",
			ExpiresAt: time.Now().Add(time.Hour),
		}
	}
	validClaims := func() *domain.TokenClaims {
		return &domain.TokenClaims{SessionID: "sess-1", AccountID: "acc-1", Email: "joe@example.com", Role: domain.RoleCustomer}
	}

	tests := []struct {
		name           string
		refreshToken   string
		setup          func(f *authFixture)
		expectedError  error
		validateResult func(t *testing.T, f *authFixture, result *domain.AuthResult)
	}{
		{
			name:         "successful refresh rotates and extends",
			refreshToken: "refresh_sess-1",
			setup: func(f *authFixture) {
				session := liveSession()
				f.tokenSvc.VerifyTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return validClaims(), nil
				}
				f.sessionRepo.FindByIDFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
					return session, nil
				}
				f.accountRepo.FindByIDFunc = func(ctx context.Context, id string) (*domain.Account, error) {
					return validAccount(), nil
				}
				f.sessionRepo.ExtendFunc = func(ctx context.Context, sessionID string, expiresAt time.Time) error {
					if sessionID != "sess-1" {
						t.Errorf("extended wrong session %s", sessionID)
					}
					// Sliding window from now, so strictly later than the old expiry.
					if !expiresAt.After(session.ExpiresAt) {
						t.Errorf("new expiry %v not after old expiry %v", expiresAt, session.ExpiresAt)
					}
					want := time.Now().Add(14 * 24 * time.Hour)
					if expiresAt.Before(want.Add(-5*time.Second)) || expiresAt.After(want.Add(5*time.Second)) {
						t.Errorf("new expiry %v not near now+refresh ttl", expiresAt)
					}
					return nil
				}
			},
			validateResult: func(t *testing.T, f *authFixture, result *domain.AuthResult) {
				if result == nil {
					t.Fatal("result is nil")
				}
				if result.SessionID != "sess-1" {
					t.Errorf("session id changed across refresh: %s", result.SessionID)
				}
				if result.Tokens.AccessToken != "access_sess-1" || result.Tokens.RefreshToken != "refresh_sess-1" {
					t.Errorf("tokens not bound to session: %+v", result.Tokens)
				}
				if len(f.events.ByType(domain.SessionRefreshedEvent)) != 1 {
					t.Error("expected a session-refreshed event")
				}
			},
		},
		{
			name:          "missing token",
			refreshToken:  "",
			setup:         func(f *authFixture) {},
			expectedError: domain.ErrMissingRefreshToken,
		},
		{
			name:          "invalid token",
			refreshToken:  "garbage",
			setup:         func(f *authFixture) {},
			expectedError: domain.ErrInvalidRefreshToken,
		},
		{
			name:         "token without session id",
			refreshToken: "refresh_",
			setup: func(f *authFixture) {
				f.tokenSvc.VerifyTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return &domain.TokenClaims{AccountID: "acc-1"}, nil
				}
			},
			expectedError: domain.ErrMissingPayload,
		},
		{
			name:         "session revoked",
			refreshToken: "refresh_sess-1",
			setup: func(f *authFixture) {
				f.tokenSvc.VerifyTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return validClaims(), nil
				}
			},
			expectedError: domain.ErrSessionNotFound,
		},
		{
			name:         "session expired but unswept",
			refreshToken: "refresh_sess-1",
			setup: func(f *authFixture) {
				f.tokenSvc.VerifyTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return validClaims(), nil
				}
				f.sessionRepo.FindByIDFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
					return &domain.Session{ID: "sess-1", AccountID: "acc-1", ExpiresAt: time.Now().Add(-time.Minute)}, nil
				}
			},
			expectedError: domain.ErrSessionExpired,
		},
		{
			name:         "account deleted under live session",
			refreshToken: "refresh_sess-1",
			setup: func(f *authFixture) {
				f.tokenSvc.VerifyTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return validClaims(), nil
				}
				f.sessionRepo.FindByIDFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
					return liveSession(), nil
				}
			},
			expectedError: domain.ErrAccountNotFound,
		},
		{
			name:         "extension failure issues no tokens",
			refreshToken: "refresh_sess-1",
			setup: func(f *authFixture) {
				f.tokenSvc.VerifyTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return validClaims(), nil
				}
				f.sessionRepo.FindByIDFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
					return liveSession(), nil
				}
				f.accountRepo.FindByIDFunc = func(ctx context.Context, id string) (*domain.Account, error) {
					return validAccount(), nil
				}
				f.sessionRepo.ExtendFunc = func(ctx context.Context, sessionID string, expiresAt time.Time) error {
					return errors.New("database error")
				}
				f.tokenSvc.SignAccessTokenFunc = func(claims *domain.TokenClaims) (string, error) {
					t.Error("signed a token after extension failed")
					return "", nil
				}
			},
			expectedError: errors.New("failed to extend session"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			tt.setup(f)

			result, err := f.svc.Refresh(context.Background(), tt.refreshToken)

			if tt.expectedError != nil {
				if err == nil {
					t.Fatalf("expected error %v, got nil", tt.expectedError)
				}
				if !errors.Is(err, tt.expectedError) && !strings.Contains(err.Error(), tt.expectedError.Error()) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				if result != nil {
					t.Error("expected nil result on error")
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.validateResult != nil {
				tt.validateResult(t, f, result)
			}
		})
	}
}

func TestAuthServiceImpl_Register(t *testing.T) {
	tests := []struct {
		name            string
		email           string
		password        string
		role            domain.Role
		setup           func(f *authFixture)
		expectedError   error
		validateAccount func(t *testing.T, f *authFixture, account *domain.Account)
	}{
		{
			name:     "successful registration",
			email:    "New@Example.com",
			password: "securepassword123",
			setup:    func(f *authFixture) {},
			validateAccount: func(t *testing.T, f *authFixture, account *domain.Account) {
				if account == nil {
					t.Fatal("account is nil")
				}
				if account.Email != "new@example.com" {
					t.Errorf("expected lowercased email, got %s", account.Email)
				}
				if account.Role != domain.RoleCustomer {
					t.Errorf("expected default role customer, got %s", account.Role)
				}
				if account.PasswordHash != "hashed_securepassword123" {
					t.Errorf("unexpected password hash %s", account.PasswordHash)
				}
				if len(f.events.ByType(domain.AccountRegisteredEvent)) != 1 {
					t.Error("expected a registered event")
				}
			},
		},
		{
			name:     "duplicate email",
			email:    "joe@example.com",
			password: "password123",
			setup: func(f *authFixture) {
				f.accountRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
					return validAccount(), nil
				}
			},
			expectedError: domain.ErrAccountAlreadyExists,
		},
		{
			name:     "explicit admin role kept",
			email:    "admin@example.com",
			password: "password123",
			role:     domain.RoleAdmin,
			setup:    func(f *authFixture) {},
			validateAccount: func(t *testing.T, f *authFixture, account *domain.Account) {
				if account.Role != domain.RoleAdmin {
					t.Errorf("expected admin role, got %s", account.Role)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			tt.setup(f)

			account, err := f.svc.Register(context.Background(), tt.email, tt.password, tt.role)

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Fatalf("expected error %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validateAccount != nil {
				tt.validateAccount(t, f, account)
			}
		})
	}
}

func TestAuthServiceImpl_Logout(t *testing.T) {
	f := newAuthFixture()
	deleted := ""
	f.sessionRepo.DeleteFunc = func(ctx context.Context, sessionID string) error {
		deleted = sessionID
		return nil
	}

	if err := f.svc.Logout(context.Background(), "sess-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "sess-1" {
		t.Errorf("expected session sess-1 deleted, got %q", deleted)
	}
	if len(f.events.ByType(domain.LogoutEvent)) != 1 {
		t.Error("expected a logout event")
	}
}
