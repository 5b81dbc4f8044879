package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/you/authsvc/domain"
)

// Sweeper removes expired sessions and verification tokens on a fixed
// cadence, off the request path. Both sweeps are idempotent: removing zero
// rows is a normal outcome.
type Sweeper struct {
	sessionRepo domain.SessionRepository
	tokenRepo   domain.VerificationTokenRepository
	interval    time.Duration
	logger      *zap.Logger
}

// NewSweeper creates a new sweeper.
func NewSweeper(sessionRepo domain.SessionRepository, tokenRepo domain.VerificationTokenRepository, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		sessionRepo: sessionRepo,
		tokenRepo:   tokenRepo,
		interval:    interval,
		logger:      logger,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs one pass over both stores.
func (s *Sweeper) Sweep(ctx context.Context) {
	sessions, err := s.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error("session sweep failed", zap.Error(err))
	}

	tokens, err := s.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error("verification token sweep failed", zap.Error(err))
	}

	if sessions > 0 || tokens > 0 {
		s.logger.Info("sweep completed",
			zap.Int64("sessions_removed", sessions),
			zap.Int64("tokens_removed", tokens))
	}
}
