package rating

import (
	"context"
	"errors"
)

var (
	// ErrRatingConflict means concurrent rating writes kept colliding past
	// the retry budget.
	ErrRatingConflict = errors.New("rating update conflict")
	// ErrDuplicateVote means this vote id was already recorded.
	ErrDuplicateVote = errors.New("vote already recorded")
)

// VoteStats summarizes the persisted vote history per provider.
type VoteStats struct {
	Provider string `json:"provider"`
	Votes    int    `json:"votes"`
	Wins     int    `json:"wins"`
	// WinRate is a percentage, matching Rating.WinRate.
	WinRate    float64 `json:"win_rate"`
	BlindVotes int     `json:"blind_votes"`
	RaceVotes  int     `json:"race_votes"`
}

// Store is the persistence boundary for ratings and votes.
type Store interface {
	// GetRating returns the provider's current rating, creating the row at
	// the baseline if the provider has never competed.
	GetRating(ctx context.Context, providerID string) (Rating, error)
	// ApplyVote atomically applies a vote's pairwise updates and persists
	// the vote record in the same transaction.
	ApplyVote(ctx context.Context, vote Vote, k, initial float64) error
	// Leaderboard returns every persisted rating.
	Leaderboard(ctx context.Context) ([]Rating, error)
	// SessionVotes returns the session's votes in creation order.
	SessionVotes(ctx context.Context, sessionID string) ([]Vote, error)
	// VoteStatistics aggregates the vote history per provider.
	VoteStatistics(ctx context.Context) ([]VoteStats, error)
}
