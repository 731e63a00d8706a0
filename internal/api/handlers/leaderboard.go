package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voicearena/ttsbench/internal/rating"
	"github.com/voicearena/ttsbench/internal/results"
)

type LeaderboardHandler struct {
	ratings *rating.Service
	results *results.Store
}

func NewLeaderboardHandler(rs *rating.Service, res *results.Store) *LeaderboardHandler {
	return &LeaderboardHandler{ratings: rs, results: res}
}

func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ratings.Leaderboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type entryView struct {
		Rank     int     `json:"rank"`
		Provider string  `json:"provider"`
		Rating   float64 `json:"rating"`
		Wins     int     `json:"wins"`
		Losses   int     `json:"losses"`
		Battles  int     `json:"battles"`
		WinRate  float64 `json:"win_rate"`
	}
	out := make([]entryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryView{
			Rank:     e.Rank,
			Provider: e.Provider,
			Rating:   e.Rating.Rating,
			Wins:     e.Wins,
			Losses:   e.Losses,
			Battles:  e.Battles(),
			WinRate:  e.WinRate(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": out})
}

// SessionRatings serves the session-local standings, replayed from the
// baseline over this session's votes only.
func (h *LeaderboardHandler) SessionRatings(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	entries, err := h.ratings.SessionLeaderboard(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session_id": sessionID, "leaderboard": entries})
}

func (h *LeaderboardHandler) TTFB(w http.ResponseWriter, r *http.Request) {
	stats, err := h.results.TTFBStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ttfb": stats})
}
