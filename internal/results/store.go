package results

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voicearena/ttsbench/internal/provider"
	"github.com/voicearena/ttsbench/internal/runner"
)

// Store persists benchmark results. Audio bytes never touch the database;
// only measurements and metadata survive the run.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Save(ctx context.Context, suiteID string, res []runner.TestResult) error {
	for _, r := range res {
		meta, err := json.Marshal(r.Metadata)
		if err != nil {
			meta = []byte("{}")
		}
		_, err = s.pool.Exec(ctx, `
			INSERT INTO benchmark_results
				(id, suite_id, provider, sample_id, voice, iteration, success,
				 latency_ms, ttfb_ms, ttfb_observed, ping_ms, file_size_bytes,
				 error_kind, error_message, metadata, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			ON CONFLICT (id) DO NOTHING
		`, r.TestID, suiteID, r.Provider, r.SampleID, r.Voice, r.Iteration, r.Success,
			r.LatencyMs, r.TTFBMs, r.TTFBObserved, r.PingMs, r.FileSizeBytes,
			nullable(string(r.ErrorKind)), nullable(r.ErrorMessage), meta, r.Timestamp)
		if err != nil {
			return fmt.Errorf("insert result %s: %w", r.TestID, err)
		}
	}
	return nil
}

// Recent returns the newest results up to limit.
func (s *Store) Recent(ctx context.Context, limit int) ([]runner.TestResult, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, provider, sample_id, voice, iteration, success,
		       latency_ms, ttfb_ms, ttfb_observed, ping_ms, file_size_bytes,
		       COALESCE(error_kind, ''), COALESCE(error_message, ''), created_at
		FROM benchmark_results ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []runner.TestResult
	for rows.Next() {
		var r runner.TestResult
		var kind string
		err := rows.Scan(&r.TestID, &r.Provider, &r.SampleID, &r.Voice, &r.Iteration, &r.Success,
			&r.LatencyMs, &r.TTFBMs, &r.TTFBObserved, &r.PingMs, &r.FileSizeBytes,
			&kind, &r.ErrorMessage, &r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.ErrorKind = provider.ErrorKind(kind)
		out = append(out, r)
	}
	return out, rows.Err()
}

// TTFBStats aggregates observed time-to-first-byte per provider across all
// persisted successful results.
type TTFBStat struct {
	Provider  string    `json:"provider"`
	Samples   int       `json:"samples"`
	AvgTTFBMs float64   `json:"avg_ttfb_ms"`
	MinTTFBMs float64   `json:"min_ttfb_ms"`
	MaxTTFBMs float64   `json:"max_ttfb_ms"`
	LastRun   time.Time `json:"last_run"`
}

func (s *Store) TTFBStats(ctx context.Context) ([]TTFBStat, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT provider, COUNT(*), AVG(ttfb_ms), MIN(ttfb_ms), MAX(ttfb_ms), MAX(created_at)
		FROM benchmark_results
		WHERE success AND ttfb_observed
		GROUP BY provider ORDER BY AVG(ttfb_ms) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query ttfb stats: %w", err)
	}
	defer rows.Close()

	var out []TTFBStat
	for rows.Next() {
		var st TTFBStat
		if err := rows.Scan(&st.Provider, &st.Samples, &st.AvgTTFBMs, &st.MinTTFBMs, &st.MaxTTFBMs, &st.LastRun); err != nil {
			return nil, fmt.Errorf("scan ttfb stat: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
