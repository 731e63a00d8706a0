package rating

import (
	"context"
	"errors"
	"testing"
)

func TestApplyWithRetryDuplicateIsTerminal(t *testing.T) {
	calls := 0
	err := applyWithRetry(context.Background(), applyVoteAttempts, func() error {
		calls++
		return ErrDuplicateVote
	})
	if !errors.Is(err, ErrDuplicateVote) {
		t.Errorf("expected ErrDuplicateVote, got %v", err)
	}
	if errors.Is(err, ErrRatingConflict) {
		t.Error("duplicate must not be reported as a rating conflict")
	}
	if calls != 1 {
		t.Errorf("duplicate must not be retried: %d attempts", calls)
	}
}

func TestApplyWithRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := applyWithRetry(context.Background(), applyVoteAttempts, func() error {
		calls++
		return errors.New("could not serialize access")
	})
	if !errors.Is(err, ErrRatingConflict) {
		t.Errorf("expected ErrRatingConflict after retries, got %v", err)
	}
	if calls != applyVoteAttempts {
		t.Errorf("expected %d attempts, got %d", applyVoteAttempts, calls)
	}
}

func TestApplyWithRetryRecoversFromTransientError(t *testing.T) {
	calls := 0
	err := applyWithRetry(context.Background(), applyVoteAttempts, func() error {
		calls++
		if calls == 1 {
			return errors.New("deadlock detected")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
}

func TestPostgresStoreKeepsConfiguredBaseline(t *testing.T) {
	s := NewPostgresStore(nil, 1500)
	if s.initial != 1500 {
		t.Errorf("lazy seed baseline: got %f, want the configured 1500", s.initial)
	}
}
