package rating

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/voicearena/ttsbench/internal/cache"
)

const (
	voteGuardTTL     = 24 * time.Hour
	promptExcerptLen = 100

	SourceBlindTest = "blind_test"
	SourceRace      = "race"
)

// Service is the rating write path. Every comparison outcome funnels
// through here: the idempotence guard runs first, then the store applies
// the pairwise updates and the vote record atomically.
type Service struct {
	store   Store
	guard   *cache.Cache
	k       float64
	initial float64
}

func NewService(store Store, guard *cache.Cache, k, initial float64) *Service {
	if k <= 0 {
		k = DefaultKFactor
	}
	if initial <= 0 {
		initial = DefaultInitialRating
	}
	return &Service{store: store, guard: guard, k: k, initial: initial}
}

func (s *Service) KFactor() float64       { return s.k }
func (s *Service) InitialRating() float64 { return s.initial }

// RecordVote persists a blind-test outcome: the winner beats every loser,
// decomposed into len(losers) pairwise updates in order, stored as one
// vote. A duplicate vote id is rejected before any rating moves.
func (s *Service) RecordVote(ctx context.Context, vote Vote) error {
	if vote.ID == "" {
		vote.ID = uuid.NewString()
	}
	if vote.Source == "" {
		vote.Source = SourceBlindTest
	}
	if len(vote.Prompt) > promptExcerptLen {
		vote.Prompt = vote.Prompt[:promptExcerptLen]
	}
	if len(vote.Losers) == 0 {
		return fmt.Errorf("vote %s has no losers", vote.ID)
	}

	if s.guard != nil {
		ok, err := s.guard.SetNX(ctx, "vote:"+vote.ID, 1, voteGuardTTL)
		if err != nil {
			slog.Warn("vote idempotence guard unavailable", "error", err)
		} else if !ok {
			return ErrDuplicateVote
		}
	}

	if err := s.store.ApplyVote(ctx, vote, s.k, s.initial); err != nil {
		return err
	}
	slog.Info("vote recorded",
		"vote_id", vote.ID, "winner", vote.Winner, "losers", len(vote.Losers), "source", vote.Source)
	return nil
}

// RecordRace persists a race outcome. The ranking's head beats every other
// finisher; ties in TTFB were already broken upstream by finish order.
func (s *Service) RecordRace(ctx context.Context, sessionID, prompt string, ranked []string, country string) error {
	if len(ranked) < 2 {
		return fmt.Errorf("race needs at least two finishers, got %d", len(ranked))
	}
	return s.RecordVote(ctx, Vote{
		SessionID: sessionID,
		Winner:    ranked[0],
		Losers:    ranked[1:],
		Prompt:    prompt,
		Source:    SourceRace,
		Country:   country,
	})
}

// Rating returns the provider's persistent rating, seeding the baseline row
// on first sight.
func (s *Service) Rating(ctx context.Context, providerID string) (Rating, error) {
	return s.store.GetRating(ctx, providerID)
}

// Leaderboard returns the persistent standings with dense ranks.
func (s *Service) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	ratings, err := s.store.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}
	return Leaderboard(ratings), nil
}

// SessionLeaderboard replays only the session's votes from the baseline, so
// a session's view never leaks other sessions' history.
func (s *Service) SessionLeaderboard(ctx context.Context, sessionID string) ([]LeaderboardEntry, error) {
	votes, err := s.store.SessionVotes(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return Leaderboard(Replay(votes, s.k, s.initial)), nil
}

// VoteStatistics reports the persisted vote history per provider.
func (s *Service) VoteStatistics(ctx context.Context) ([]VoteStats, error) {
	return s.store.VoteStatistics(ctx)
}
