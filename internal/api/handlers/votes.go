package handlers

import (
	"errors"
	"net/http"

	"github.com/voicearena/ttsbench/internal/geo"
	"github.com/voicearena/ttsbench/internal/rating"
	"github.com/voicearena/ttsbench/internal/session"
)

// VotesHandler records blind-test outcomes.
type VotesHandler struct {
	ratings *rating.Service
	locator *geo.Locator
}

func NewVotesHandler(rs *rating.Service, loc *geo.Locator) *VotesHandler {
	return &VotesHandler{ratings: rs, locator: loc}
}

type voteRequest struct {
	VoteID string   `json:"vote_id,omitempty"`
	Winner string   `json:"winner"`
	Losers []string `json:"losers"`
	Prompt string   `json:"prompt,omitempty"`
}

func (h *VotesHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Winner == "" || len(req.Losers) == 0 {
		writeError(w, http.StatusBadRequest, "winner and losers are required")
		return
	}
	for _, l := range req.Losers {
		if l == req.Winner {
			writeError(w, http.StatusBadRequest, "winner cannot also be a loser")
			return
		}
	}

	country := ""
	if h.locator != nil {
		country = h.locator.Lookup(r.Context(), clientIP(r)).CountryCode
	}

	err := h.ratings.RecordVote(r.Context(), rating.Vote{
		ID:        req.VoteID,
		SessionID: session.FromContext(r.Context()),
		Winner:    req.Winner,
		Losers:    req.Losers,
		Prompt:    req.Prompt,
		Source:    rating.SourceBlindTest,
		Country:   country,
	})
	switch {
	case errors.Is(err, rating.ErrDuplicateVote):
		writeError(w, http.StatusConflict, "vote already recorded")
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
	}
}

func (h *VotesHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ratings.VoteStatistics(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"statistics": stats})
}
