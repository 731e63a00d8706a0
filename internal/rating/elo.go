package rating

import (
	"math"
	"sort"
	"time"
)

// DefaultKFactor and DefaultInitialRating are the classic chess values;
// every provider starts from the same baseline.
const (
	DefaultKFactor       = 32.0
	DefaultInitialRating = 1000.0
)

// Rating is one provider's current standing.
type Rating struct {
	Provider  string    `json:"provider"`
	Rating    float64   `json:"rating"`
	Wins      int       `json:"wins"`
	Losses    int       `json:"losses"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Battles is the total number of comparisons this provider took part in.
func (r Rating) Battles() int { return r.Wins + r.Losses }

// WinRate is wins over battles as a percentage, 0 when the provider has
// never competed.
func (r Rating) WinRate() float64 {
	b := r.Battles()
	if b == 0 {
		return 0
	}
	return float64(r.Wins) / float64(b) * 100
}

// Expected is the standard ELO expectation for the winner: the probability
// a player rated winner beats one rated loser.
func Expected(winner, loser float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (loser-winner)/400.0))
}

// Update applies one pairwise outcome and returns the new ratings. The
// exchange is zero sum: the winner gains exactly what the loser sheds.
func Update(winner, loser, k float64) (newWinner, newLoser float64) {
	delta := k * (1.0 - Expected(winner, loser))
	return winner + delta, loser - delta
}

// LeaderboardEntry is a rating with its dense rank.
type LeaderboardEntry struct {
	Rank int `json:"rank"`
	Rating
}

// Leaderboard orders ratings by score descending and assigns dense ranks:
// equal scores share a rank and the next distinct score gets rank+1.
func Leaderboard(ratings []Rating) []LeaderboardEntry {
	sorted := make([]Rating, len(ratings))
	copy(sorted, ratings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rating != sorted[j].Rating {
			return sorted[i].Rating > sorted[j].Rating
		}
		return sorted[i].Provider < sorted[j].Provider
	})

	entries := make([]LeaderboardEntry, 0, len(sorted))
	rank := 0
	var prev float64
	for i, r := range sorted {
		if i == 0 || r.Rating != prev {
			rank++
			prev = r.Rating
		}
		entries = append(entries, LeaderboardEntry{Rank: rank, Rating: r})
	}
	return entries
}
