package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/you/authsvc/domain"
)

// PasswordResetServiceImpl implements domain.PasswordResetService.
type PasswordResetServiceImpl struct {
	accountRepo domain.AccountRepository
	tokenRepo   domain.VerificationTokenRepository
	passwordSvc domain.PasswordService
	throttle    domain.ThrottleStore
	events      domain.EventPublisher
	config      ResetConfig
}

// ResetConfig carries the reset-token settings.
type ResetConfig struct {
	TokenLength  int
	TTL          time.Duration
	ResendLimit  int
	ResendWindow time.Duration
}

// NewPasswordResetService creates a new password reset service.
func NewPasswordResetService(
	accountRepo domain.AccountRepository,
	tokenRepo domain.VerificationTokenRepository,
	passwordSvc domain.PasswordService,
	throttle domain.ThrottleStore,
	events domain.EventPublisher,
	config ResetConfig,
) domain.PasswordResetService {
	return &PasswordResetServiceImpl{
		accountRepo: accountRepo,
		tokenRepo:   tokenRepo,
		passwordSvc: passwordSvc,
		throttle:    throttle,
		events:      events,
		config:      config,
	}
}

// ForgotPassword implements domain.PasswordResetService. The reset code is
// delivered through the event publisher; delivery failure never rolls back
// token creation.
func (s *PasswordResetServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrAccountNotFound
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	if s.throttle != nil && s.config.ResendLimit > 0 {
		allowed, wait, err := s.throttle.Allow(ctx, "reset:"+strings.ToLower(email), s.config.ResendLimit, s.config.ResendWindow)
		if err != nil {
			return fmt.Errorf("failed to check reset throttle: %w", err)
		}
		if !allowed {
			return fmt.Errorf("%w: retry in %d seconds", domain.ErrTooManyRequests, wait)
		}
	}

	code, err := s.generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}

	token := &domain.VerificationToken{
		ID:        uuid.NewString(),
		Token:     code,
		Purpose:   domain.PurposePasswordReset,
		AccountID: account.ID,
		ExpiresAt: time.Now().Add(s.config.TTL),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return fmt.Errorf("failed to persist reset token: %w", err)
	}

	s.events.Publish(domain.NewEvent(domain.PasswordResetRequestedEvent, account.ID).
		WithEmail(account.Email).
		WithMetadata("token", code).
		WithMetadata("expires_in_minutes", int(s.config.TTL.Minutes())))

	return nil
}

// VerifyToken implements domain.PasswordResetService. It is a pure check:
// the token is not consumed. Not-found, expired and wrong-purpose all
// collapse into the same error so nothing leaks about which condition
// failed.
func (s *PasswordResetServiceImpl) VerifyToken(ctx context.Context, email, token string, purpose domain.TokenPurpose) error {
	found, err := s.tokenRepo.FindByTokenAndType(ctx, token, purpose, email)
	if err != nil {
		return fmt.Errorf("failed to look up verification token: %w", err)
	}
	if found == nil || !found.IsValid(time.Now()) {
		return domain.ErrTokenInvalidOrExpired
	}
	return nil
}

// ResetPassword implements domain.PasswordResetService. On success every
// outstanding reset token for the account dies, not just the one used.
func (s *PasswordResetServiceImpl) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	if err := s.VerifyToken(ctx, email, token, domain.PurposePasswordReset); err != nil {
		return err
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrAccountNotFound
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	hashed, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.accountRepo.UpdatePassword(ctx, account.ID, hashed); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.tokenRepo.DeleteByAccountAndPurpose(ctx, account.ID, domain.PurposePasswordReset); err != nil {
		return fmt.Errorf("failed to consume reset tokens: %w", err)
	}

	s.events.Publish(domain.NewEvent(domain.PasswordResetCompletedEvent, account.ID).WithEmail(account.Email))

	return nil
}

// generateCode produces a numeric code of the configured length from a
// cryptographically secure source.
func (s *PasswordResetServiceImpl) generateCode() (string, error) {
	length := s.config.TokenLength
	if length <= 0 {
		length = 6
	}
	digits := make([]byte, length)
	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}
	return string(digits), nil
}
