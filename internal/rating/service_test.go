package rating

import (
	"context"
	"errors"
	"testing"
)

// memStore implements Store in memory for service tests.
type memStore struct {
	ratings map[string]*Rating
	votes   []Vote
	initial float64
}

func newMemStore(initial float64) *memStore {
	return &memStore{ratings: map[string]*Rating{}, initial: initial}
}

func (s *memStore) get(p string) *Rating {
	r, ok := s.ratings[p]
	if !ok {
		r = &Rating{Provider: p, Rating: s.initial}
		s.ratings[p] = r
	}
	return r
}

func (s *memStore) GetRating(_ context.Context, providerID string) (Rating, error) {
	return *s.get(providerID), nil
}

func (s *memStore) ApplyVote(_ context.Context, vote Vote, k, _ float64) error {
	for _, v := range s.votes {
		if v.ID == vote.ID {
			return ErrDuplicateVote
		}
	}
	w := s.get(vote.Winner)
	for _, loserID := range vote.Losers {
		if loserID == vote.Winner {
			continue
		}
		l := s.get(loserID)
		w.Rating, l.Rating = Update(w.Rating, l.Rating, k)
		w.Wins++
		l.Losses++
	}
	s.votes = append(s.votes, vote)
	return nil
}

func (s *memStore) Leaderboard(_ context.Context) ([]Rating, error) {
	out := make([]Rating, 0, len(s.ratings))
	for _, r := range s.ratings {
		out = append(out, *r)
	}
	return out, nil
}

func (s *memStore) SessionVotes(_ context.Context, sessionID string) ([]Vote, error) {
	var out []Vote
	for _, v := range s.votes {
		if v.SessionID == sessionID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *memStore) VoteStatistics(_ context.Context) ([]VoteStats, error) {
	return nil, nil
}

func TestRecordVotePairwiseUpdates(t *testing.T) {
	store := newMemStore(DefaultInitialRating)
	svc := NewService(store, nil, DefaultKFactor, DefaultInitialRating)

	err := svc.RecordVote(context.Background(), Vote{
		ID:     "v1",
		Winner: "a",
		Losers: []string{"b", "c"},
	})
	if err != nil {
		t.Fatalf("record vote: %v", err)
	}

	a, _ := svc.Rating(context.Background(), "a")
	if a.Wins != 2 {
		t.Errorf("winner wins: got %d, want 2", a.Wins)
	}
	b, _ := svc.Rating(context.Background(), "b")
	c, _ := svc.Rating(context.Background(), "c")
	if b.Losses != 1 || c.Losses != 1 {
		t.Errorf("each loser records one loss: b=%d c=%d", b.Losses, c.Losses)
	}
	if a.Rating <= DefaultInitialRating || b.Rating >= DefaultInitialRating {
		t.Errorf("ratings did not move: a=%f b=%f", a.Rating, b.Rating)
	}
}

func TestRecordVoteDuplicateRejected(t *testing.T) {
	store := newMemStore(DefaultInitialRating)
	svc := NewService(store, nil, DefaultKFactor, DefaultInitialRating)

	vote := Vote{ID: "dup", Winner: "a", Losers: []string{"b"}}
	if err := svc.RecordVote(context.Background(), vote); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	err := svc.RecordVote(context.Background(), vote)
	if !errors.Is(err, ErrDuplicateVote) {
		t.Errorf("expected ErrDuplicateVote, got %v", err)
	}

	a, _ := svc.Rating(context.Background(), "a")
	if a.Wins != 1 {
		t.Errorf("duplicate must not double-count: wins=%d", a.Wins)
	}
}

func TestRecordVoteRejectsEmptyLosers(t *testing.T) {
	svc := NewService(newMemStore(DefaultInitialRating), nil, DefaultKFactor, DefaultInitialRating)
	if err := svc.RecordVote(context.Background(), Vote{ID: "v", Winner: "a"}); err == nil {
		t.Fatal("vote without losers must be rejected")
	}
}

func TestRecordVoteTruncatesPrompt(t *testing.T) {
	store := newMemStore(DefaultInitialRating)
	svc := NewService(store, nil, DefaultKFactor, DefaultInitialRating)

	long := ""
	for i := 0; i < 40; i++ {
		long += "abcdef "
	}
	if err := svc.RecordVote(context.Background(), Vote{ID: "v", Winner: "a", Losers: []string{"b"}, Prompt: long}); err != nil {
		t.Fatalf("record vote: %v", err)
	}
	if got := len(store.votes[0].Prompt); got > 100 {
		t.Errorf("prompt excerpt too long: %d chars", got)
	}
}

func TestRecordRaceNeedsTwoFinishers(t *testing.T) {
	svc := NewService(newMemStore(DefaultInitialRating), nil, DefaultKFactor, DefaultInitialRating)
	if err := svc.RecordRace(context.Background(), "s", "text", []string{"only"}, ""); err == nil {
		t.Fatal("single-finisher race must be rejected")
	}
}

func TestSessionLeaderboardIsolation(t *testing.T) {
	store := newMemStore(DefaultInitialRating)
	svc := NewService(store, nil, DefaultKFactor, DefaultInitialRating)

	// Session s1 votes a over b; session s2 votes b over a twice.
	svc.RecordVote(context.Background(), Vote{ID: "1", SessionID: "s1", Winner: "a", Losers: []string{"b"}})
	svc.RecordVote(context.Background(), Vote{ID: "2", SessionID: "s2", Winner: "b", Losers: []string{"a"}})
	svc.RecordVote(context.Background(), Vote{ID: "3", SessionID: "s2", Winner: "b", Losers: []string{"a"}})

	entries, err := svc.SessionLeaderboard(context.Background(), "s1")
	if err != nil {
		t.Fatalf("session leaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 providers in session view, got %d", len(entries))
	}
	if entries[0].Provider != "a" || entries[0].Rank != 1 {
		t.Errorf("session s1 should rank a first, got %s", entries[0].Provider)
	}
	// In the session view a has exactly one win, regardless of s2's votes.
	if entries[0].Wins != 1 || entries[0].Losses != 0 {
		t.Errorf("session replay leaked foreign votes: %+v", entries[0])
	}
}

func TestRecordRaceDecomposition(t *testing.T) {
	store := newMemStore(DefaultInitialRating)
	svc := NewService(store, nil, DefaultKFactor, DefaultInitialRating)

	if err := svc.RecordRace(context.Background(), "s", "prompt", []string{"x", "y", "z"}, "US"); err != nil {
		t.Fatalf("record race: %v", err)
	}
	if len(store.votes) != 1 {
		t.Fatalf("a race persists exactly one vote, got %d", len(store.votes))
	}
	v := store.votes[0]
	if v.Winner != "x" || len(v.Losers) != 2 || v.Source != SourceRace || v.Country != "US" {
		t.Errorf("race vote wrong: %+v", v)
	}
	x, _ := svc.Rating(context.Background(), "x")
	if x.Wins != 2 {
		t.Errorf("race head beats every other finisher: wins=%d", x.Wins)
	}
}
