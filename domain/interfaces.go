package domain

import (
	"context"
	"time"
)

// AccountRepository defines account data access operations.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	// FindByEmail matches the email case-insensitively and exactly.
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	UpdatePassword(ctx context.Context, accountID, passwordHash string) error
}

// SessionRepository defines session data access operations.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	// FindByID returns the session even when its expiry has passed; callers
	// check IsExpired so that "just expired" and "never existed" stay
	// distinguishable.
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	// Extend persists a new expiry for the session.
	Extend(ctx context.Context, sessionID string, expiresAt time.Time) error
	Delete(ctx context.Context, sessionID string) error
	// DeleteExpired removes every session whose expiry has passed and
	// returns the number removed.
	DeleteExpired(ctx context.Context) (int64, error)
}

// VerificationTokenRepository defines verification token data access operations.
type VerificationTokenRepository interface {
	Create(ctx context.Context, token *VerificationToken) error
	// FindByTokenAndType filters by token value, purpose and the email of
	// the owning account. A token valid for one purpose is never returned
	// for another.
	FindByTokenAndType(ctx context.Context, token string, purpose TokenPurpose, email string) (*VerificationToken, error)
	// DeleteByAccountAndPurpose consumes every outstanding token of the
	// given purpose for the account.
	DeleteByAccountAndPurpose(ctx context.Context, accountID string, purpose TokenPurpose) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// AuthService defines the credential and session lifecycle use cases.
type AuthService interface {
	Register(ctx context.Context, email, password string, role Role) (*Account, error)
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	GetAccount(ctx context.Context, accountID string) (*Account, error)
}

// PasswordResetService defines the forgot/verify/reset password use cases.
type PasswordResetService interface {
	ForgotPassword(ctx context.Context, email string) error
	VerifyToken(ctx context.Context, email, token string, purpose TokenPurpose) error
	ResetPassword(ctx context.Context, email, token, newPassword string) error
}

// PasswordService defines password hashing operations.
type PasswordService interface {
	Hash(password string) (string, error)
	// Verify runs in time independent of where a mismatch occurs.
	Verify(hashedPassword, password string) bool
	// DummyVerify burns one Verify against a fixed hash so that callers can
	// equalize the cost of "no such account" and "wrong password".
	DummyVerify(password string)
}

// TokenClaims is the claim set embedded in issued tokens. SessionID is the
// token subject; AccountID, Email and Role are convenience claims.
type TokenClaims struct {
	SessionID string
	AccountID string
	Email     string
	Role      Role
	IssuedAt  int64
	ExpiresAt int64
}

// TokenService defines signed token operations. Signing uses a private key;
// verification requires only the public key.
type TokenService interface {
	SignAccessToken(claims *TokenClaims) (string, error)
	SignRefreshToken(claims *TokenClaims) (string, error)
	VerifyToken(token string) (*TokenClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// NotificationService defines outbound notification delivery.
type NotificationService interface {
	SendEmail(to, subject, body string) error
	SendSMS(to, message string) error
}

// ThrottleStore bounds the rate of security-sensitive requests per key.
type ThrottleStore interface {
	// Allow records an attempt under key and reports whether it is within
	// limit attempts per window. The second result is the seconds left until
	// the window resets when the attempt was rejected.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int64, error)
}

// PolicyService defines authorization policy operations.
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer is the subset of the casbin enforcer the policy service needs.
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
