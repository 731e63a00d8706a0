package rating

import "time"

// Vote is one persisted comparison outcome. A race between N providers is
// stored as a single vote carrying every loser, and replays as N-1
// pairwise updates in the stored loser order.
type Vote struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Winner    string    `json:"winner"`
	Losers    []string  `json:"losers"`
	Prompt    string    `json:"prompt,omitempty"`
	Source    string    `json:"source"` // "blind_test" or "race"
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Replay folds a vote sequence into ratings seeded at the baseline. Session
// leaderboards are exactly this: the same update rule over the session's
// votes only, independent of the persistent table.
func Replay(votes []Vote, k, initial float64) []Rating {
	table := make(map[string]*Rating)
	get := func(p string) *Rating {
		r, ok := table[p]
		if !ok {
			r = &Rating{Provider: p, Rating: initial}
			table[p] = r
		}
		return r
	}

	for _, v := range votes {
		w := get(v.Winner)
		for _, loserID := range v.Losers {
			if loserID == v.Winner {
				continue
			}
			l := get(loserID)
			w.Rating, l.Rating = Update(w.Rating, l.Rating, k)
			w.Wins++
			l.Losses++
			w.UpdatedAt = v.CreatedAt
			l.UpdatedAt = v.CreatedAt
		}
	}

	out := make([]Rating, 0, len(table))
	for _, r := range table {
		out = append(out, *r)
	}
	return out
}
