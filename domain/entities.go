package domain

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// TokenPurpose scopes a verification token to a single flow.
type TokenPurpose string

const (
	PurposePasswordReset TokenPurpose = "PASSWORD_RESET"
)

// Account represents an account in the system. PasswordHash is empty for
// accounts that authenticate through an external provider; ProviderID and
// ProviderAccountID are set together or not at all.
type Account struct {
	ID                string
	Email             string
	PasswordHash      string
	Role              Role
	ProviderID        string
	ProviderAccountID string
	EmailVerified     bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsExternal reports whether the account authenticates through an external
// provider instead of a password.
func (a *Account) IsExternal() bool {
	return a.ProviderID != ""
}

// Session represents one active login. Its ID is the subject of every token
// issued for it.
type Session struct {
	ID        string
	AccountID string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExpired reports whether the session is logically invalid. An expired
// session may still exist in storage until the sweep removes it.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// VerificationToken is a single-use, purpose-scoped, expiring code.
type VerificationToken struct {
	ID        string
	Token     string
	Purpose   TokenPurpose
	AccountID string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsValid reports whether the token can still be consumed.
func (v *VerificationToken) IsValid(now time.Time) bool {
	return v.ExpiresAt.After(now)
}

// TokenPair is the access/refresh pair issued on every successful auth event.
// Both tokens carry the same session id as subject.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult represents a successful sign-in or refresh outcome.
type AuthResult struct {
	Account   *Account
	Tokens    TokenPair
	SessionID string
	ExpiresIn int64
}
