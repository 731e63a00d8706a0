package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/voicearena/ttsbench/internal/provider"
	"github.com/voicearena/ttsbench/internal/rating"
	"github.com/voicearena/ttsbench/internal/runner"
	"github.com/voicearena/ttsbench/internal/voice"
)

// brokenStore fails every write so handler error paths can be exercised.
type brokenStore struct{}

func (brokenStore) GetRating(context.Context, string) (rating.Rating, error) {
	return rating.Rating{}, nil
}

func (brokenStore) ApplyVote(context.Context, rating.Vote, float64, float64) error {
	return errors.New("ratings table unavailable")
}

func (brokenStore) Leaderboard(context.Context) ([]rating.Rating, error) { return nil, nil }

func (brokenStore) SessionVotes(context.Context, string) ([]rating.Vote, error) { return nil, nil }

func (brokenStore) VoteStatistics(context.Context) ([]rating.VoteStats, error) { return nil, nil }

func TestRaceReportsRatingFailure(t *testing.T) {
	a := provider.NewMockAdapter("ma", []provider.VoiceInfo{
		{ID: "en-US-anna", Name: "Anna", Gender: provider.GenderFemale, Locale: "en-US"},
	})
	b := provider.NewMockAdapter("mb", []provider.VoiceInfo{
		{ID: "en-US-beth", Name: "Beth", Gender: provider.GenderFemale, Locale: "en-US"},
	})

	run := runner.New(map[string]provider.Adapter{"ma": a, "mb": b}, 2)
	sel := voice.NewSelector(provider.NewRegistry([]*provider.Descriptor{a.Desc, b.Desc}))
	svc := rating.NewService(brokenStore{}, nil, rating.DefaultKFactor, rating.DefaultInitialRating)
	h := NewRacesHandler(run, sel, svc, nil)

	body, _ := json.Marshal(map[string]any{
		"providers": []string{"ma", "mb"},
		"text":      "hello there",
		"rated":     true,
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/races", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Run(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Winner      string `json:"winner"`
		Rated       bool   `json:"rated"`
		RatingError string `json:"rating_error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Winner == "" {
		t.Error("race between two healthy providers should produce a winner")
	}
	if resp.Rated {
		t.Error("rated must be false when the rating write fails")
	}
	if resp.RatingError == "" {
		t.Error("rating failure must carry a reason")
	}
}
