package handlers

import (
	"log/slog"
	"net/http"

	"github.com/voicearena/ttsbench/internal/geo"
	"github.com/voicearena/ttsbench/internal/provider"
	"github.com/voicearena/ttsbench/internal/rating"
	"github.com/voicearena/ttsbench/internal/runner"
	"github.com/voicearena/ttsbench/internal/session"
	"github.com/voicearena/ttsbench/internal/voice"
)

// RacesHandler runs head-to-head generations and feeds the outcome into the
// rating pool.
type RacesHandler struct {
	runner   *runner.Runner
	selector *voice.Selector
	ratings  *rating.Service
	locator  *geo.Locator
}

func NewRacesHandler(r *runner.Runner, sel *voice.Selector, rs *rating.Service, loc *geo.Locator) *RacesHandler {
	return &RacesHandler{runner: r, selector: sel, ratings: rs, locator: loc}
}

type raceRequest struct {
	Providers []string `json:"providers"`
	Text      string   `json:"text"`
	Gender    string   `json:"gender,omitempty"`
	Locale    string   `json:"locale,omitempty"`
	Rated     bool     `json:"rated,omitempty"`
}

func (h *RacesHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req raceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Providers) < 2 || req.Text == "" {
		writeError(w, http.StatusBadRequest, "at least two providers and text are required")
		return
	}

	gender := provider.GenderFemale
	if req.Gender != "" {
		gender = provider.Gender(req.Gender)
	}

	var entries []runner.RaceEntry
	for i, p := range req.Providers {
		adapter, ok := h.runner.Adapter(p)
		if !ok {
			writeError(w, http.StatusNotFound, "provider "+p+" is not configured")
			return
		}
		name, _, err := h.selector.SelectResolved(r.Context(), adapter, gender, req.Locale, i)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		entries = append(entries, runner.RaceEntry{Provider: p, Voice: name})
	}

	report := h.runner.Race(r.Context(), req.Text, entries)

	rated := false
	ratingError := ""
	if req.Rated && report.Winner != "" {
		sid := session.FromContext(r.Context())
		country := ""
		if h.locator != nil {
			country = h.locator.Lookup(r.Context(), clientIP(r)).CountryCode
		}
		if err := h.ratings.RecordRace(r.Context(), sid, req.Text, report.Ranked, country); err != nil {
			slog.Error("race rating update failed", "session_id", sid, "error", err)
			ratingError = err.Error()
		} else {
			rated = true
		}
	}

	resp := map[string]interface{}{
		"winner":  report.Winner,
		"ranked":  report.Ranked,
		"results": report.Results,
		"rated":   rated,
	}
	if ratingError != "" {
		resp["rating_error"] = ratingError
	}
	writeJSON(w, http.StatusOK, resp)
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
