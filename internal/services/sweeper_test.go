package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/you/authsvc/internal/mocks"
)

func TestSweeperSweepsBothStores(t *testing.T) {
	sessionRepo := mocks.NewMockSessionRepository()
	tokenRepo := mocks.NewMockVerificationTokenRepository()

	sessionSweeps := 0
	tokenSweeps := 0
	sessionRepo.DeleteExpiredFunc = func(ctx context.Context) (int64, error) {
		sessionSweeps++
		return 3, nil
	}
	tokenRepo.DeleteExpiredFunc = func(ctx context.Context) (int64, error) {
		tokenSweeps++
		return 1, nil
	}

	sweeper := NewSweeper(sessionRepo, tokenRepo, time.Hour, zap.NewNop())
	sweeper.Sweep(context.Background())

	if sessionSweeps != 1 || tokenSweeps != 1 {
		t.Errorf("expected one pass over each store, got %d/%d", sessionSweeps, tokenSweeps)
	}
}

func TestSweeperSessionErrorDoesNotSkipTokens(t *testing.T) {
	sessionRepo := mocks.NewMockSessionRepository()
	tokenRepo := mocks.NewMockVerificationTokenRepository()

	sessionRepo.DeleteExpiredFunc = func(ctx context.Context) (int64, error) {
		return 0, errors.New("database error")
	}
	tokenSwept := false
	tokenRepo.DeleteExpiredFunc = func(ctx context.Context) (int64, error) {
		tokenSwept = true
		return 0, nil
	}

	sweeper := NewSweeper(sessionRepo, tokenRepo, time.Hour, zap.NewNop())
	sweeper.Sweep(context.Background())

	if !tokenSwept {
		t.Error("token sweep skipped after session sweep failure")
	}
}

func TestSweeperRunStopsOnCancel(t *testing.T) {
	sessionRepo := mocks.NewMockSessionRepository()
	tokenRepo := mocks.NewMockVerificationTokenRepository()

	var sweeps int64
	sessionRepo.DeleteExpiredFunc = func(ctx context.Context) (int64, error) {
		atomic.AddInt64(&sweeps, 1)
		return 0, nil
	}

	sweeper := NewSweeper(sessionRepo, tokenRepo, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}

	if atomic.LoadInt64(&sweeps) == 0 {
		t.Error("expected at least one sweep before cancel")
	}
}
