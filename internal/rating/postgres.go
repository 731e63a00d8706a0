package rating

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applyVoteAttempts = 3

// PostgresStore keeps ratings and votes in Postgres. Rating updates run as
// a read-modify-write inside one transaction with the affected rows locked,
// so concurrent votes serialize instead of clobbering each other.
type PostgresStore struct {
	pool *pgxpool.Pool
	// initial seeds lazily created rows. It is the same configured baseline
	// ApplyVote receives, so a provider enters the pool at one rating no
	// matter which path creates its row first.
	initial float64
}

func NewPostgresStore(pool *pgxpool.Pool, initial float64) *PostgresStore {
	return &PostgresStore{pool: pool, initial: initial}
}

func (s *PostgresStore) GetRating(ctx context.Context, providerID string) (Rating, error) {
	// Baseline rows are created lazily; the zero-value insert loses to any
	// existing row.
	_, err := s.pool.Exec(ctx, `
		INSERT INTO elo_ratings (provider, rating, wins, losses, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (provider) DO NOTHING
	`, providerID, s.initial)
	if err != nil {
		return Rating{}, fmt.Errorf("ensure rating row: %w", err)
	}

	var r Rating
	err = s.pool.QueryRow(ctx, `
		SELECT provider, rating, wins, losses, updated_at
		FROM elo_ratings WHERE provider = $1
	`, providerID).Scan(&r.Provider, &r.Rating, &r.Wins, &r.Losses, &r.UpdatedAt)
	if err != nil {
		return Rating{}, fmt.Errorf("get rating: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) ApplyVote(ctx context.Context, vote Vote, k, initial float64) error {
	return applyWithRetry(ctx, applyVoteAttempts, func() error {
		return s.applyVoteOnce(ctx, vote, k, initial)
	})
}

// applyWithRetry retries contention errors up to attempts times. A duplicate
// vote id is a terminal answer, not contention, and passes through unwrapped
// so callers can map it to a conflict response.
func applyWithRetry(ctx context.Context, attempts int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, ErrDuplicateVote) {
			return lastErr
		}
		if ctx.Err() != nil {
			return lastErr
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	return fmt.Errorf("%w: %v", ErrRatingConflict, lastErr)
}

func (s *PostgresStore) applyVoteOnce(ctx context.Context, vote Vote, k, initial float64) error {
	participants := append([]string{vote.Winner}, vote.Losers...)

	// Lock rows in sorted order so concurrent votes cannot deadlock.
	locked := make([]string, len(participants))
	copy(locked, participants)
	sort.Strings(locked)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	ratings := make(map[string]*Rating, len(locked))
	for _, p := range locked {
		if _, err := tx.Exec(ctx, `
			INSERT INTO elo_ratings (provider, rating, wins, losses, updated_at)
			VALUES ($1, $2, 0, 0, now())
			ON CONFLICT (provider) DO NOTHING
		`, p, initial); err != nil {
			return fmt.Errorf("ensure rating row %s: %w", p, err)
		}

		var r Rating
		err := tx.QueryRow(ctx, `
			SELECT provider, rating, wins, losses, updated_at
			FROM elo_ratings WHERE provider = $1 FOR UPDATE
		`, p).Scan(&r.Provider, &r.Rating, &r.Wins, &r.Losses, &r.UpdatedAt)
		if err != nil {
			return fmt.Errorf("lock rating %s: %w", p, err)
		}
		ratings[p] = &r
	}

	w := ratings[vote.Winner]
	for _, loserID := range vote.Losers {
		if loserID == vote.Winner {
			continue
		}
		l := ratings[loserID]
		w.Rating, l.Rating = Update(w.Rating, l.Rating, k)
		w.Wins++
		l.Losses++
	}

	for _, r := range ratings {
		if _, err := tx.Exec(ctx, `
			UPDATE elo_ratings SET rating = $2, wins = $3, losses = $4, updated_at = now()
			WHERE provider = $1
		`, r.Provider, r.Rating, r.Wins, r.Losses); err != nil {
			return fmt.Errorf("update rating %s: %w", r.Provider, err)
		}
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO votes (id, session_id, winner, losers, prompt, source, country, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (id) DO NOTHING
	`, vote.ID, vote.SessionID, vote.Winner, vote.Losers, vote.Prompt, vote.Source, vote.Country)
	if err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicateVote
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) Leaderboard(ctx context.Context) ([]Rating, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT provider, rating, wins, losses, updated_at
		FROM elo_ratings ORDER BY rating DESC, provider ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	var out []Rating
	for rows.Next() {
		var r Rating
		if err := rows.Scan(&r.Provider, &r.Rating, &r.Wins, &r.Losses, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SessionVotes(ctx context.Context, sessionID string) ([]Vote, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, session_id, winner, losers, prompt, source, country, created_at
		FROM votes WHERE session_id = $1 ORDER BY created_at ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query session votes: %w", err)
	}
	defer rows.Close()
	return scanVotes(rows)
}

func (s *PostgresStore) VoteStatistics(ctx context.Context) ([]VoteStats, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.provider,
		       COUNT(*) AS votes,
		       COUNT(*) FILTER (WHERE v.winner = p.provider) AS wins,
		       COUNT(*) FILTER (WHERE v.source = 'blind_test') AS blind_votes,
		       COUNT(*) FILTER (WHERE v.source = 'race') AS race_votes
		FROM votes v,
		     LATERAL unnest(array_append(v.losers, v.winner)) AS p(provider)
		GROUP BY p.provider
		ORDER BY p.provider
	`)
	if err != nil {
		return nil, fmt.Errorf("query vote statistics: %w", err)
	}
	defer rows.Close()

	var out []VoteStats
	for rows.Next() {
		var st VoteStats
		if err := rows.Scan(&st.Provider, &st.Votes, &st.Wins, &st.BlindVotes, &st.RaceVotes); err != nil {
			return nil, fmt.Errorf("scan vote statistics: %w", err)
		}
		if st.Votes > 0 {
			st.WinRate = float64(st.Wins) / float64(st.Votes) * 100
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func scanVotes(rows pgx.Rows) ([]Vote, error) {
	var out []Vote
	for rows.Next() {
		var v Vote
		if err := rows.Scan(&v.ID, &v.SessionID, &v.Winner, &v.Losers, &v.Prompt, &v.Source, &v.Country, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
