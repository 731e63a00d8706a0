package runner

import (
	"context"
	"testing"
	"time"

	"github.com/voicearena/ttsbench/internal/provider"
)

func femaleVoice(id string) []provider.VoiceInfo {
	return []provider.VoiceInfo{{ID: id, Name: id, Gender: provider.GenderFemale, Locale: "en-US"}}
}

func TestRunSingleSuccess(t *testing.T) {
	mock := provider.NewMockAdapter("alpha", femaleVoice("v1"))
	r := New(map[string]provider.Adapter{"alpha": mock}, 2)

	res := r.RunSingle(context.Background(), "alpha", provider.Request{Text: "hello there", Voice: "v1"})

	if !res.Success {
		t.Fatalf("expected success, got %s: %s", res.ErrorKind, res.ErrorMessage)
	}
	if res.FileSizeBytes != 12345 {
		t.Errorf("file size: got %d, want 12345", res.FileSizeBytes)
	}
	if res.TestID == "" {
		t.Error("test id must be assigned")
	}
	if res.Provider != "alpha" || res.Voice != "v1" {
		t.Errorf("identity fields wrong: %+v", res)
	}
	if len(mock.Calls()) != 1 {
		t.Errorf("adapter should see exactly one call, saw %d", len(mock.Calls()))
	}
}

func TestRunSingleValidationFailureSkipsAdapterCall(t *testing.T) {
	mock := provider.NewMockAdapter("alpha", femaleVoice("v1"))
	r := New(map[string]provider.Adapter{"alpha": mock}, 2)

	res := r.RunSingle(context.Background(), "alpha", provider.Request{Text: "hi", Voice: "unknown"})

	if res.Success {
		t.Fatal("expected validation failure")
	}
	if res.ErrorKind != provider.ErrKindValidation {
		t.Errorf("error kind: got %s, want %s", res.ErrorKind, provider.ErrKindValidation)
	}
	if len(mock.Calls()) != 0 {
		t.Errorf("validation failure must not reach the adapter, saw %d calls", len(mock.Calls()))
	}
}

func TestRunSingleUnknownProvider(t *testing.T) {
	r := New(map[string]provider.Adapter{}, 2)
	res := r.RunSingle(context.Background(), "ghost", provider.Request{Text: "hi", Voice: "v"})
	if res.Success || res.ErrorKind != provider.ErrKindValidation {
		t.Errorf("unknown provider should fail validation, got %+v", res)
	}
}

func TestRunSuiteProgressAndCompletion(t *testing.T) {
	alpha := provider.NewMockAdapter("alpha", femaleVoice("v1"))
	beta := provider.NewMockAdapter("beta", femaleVoice("v2"))
	r := New(map[string]provider.Adapter{"alpha": alpha, "beta": beta}, 3)

	spec := SuiteSpec{
		Providers: []string{"alpha", "beta"},
		Samples: []Sample{
			{ID: "s1", Text: "first sample text"},
			{ID: "s2", Text: "second sample text"},
			{ID: "s3", Text: "third sample text"},
		},
		Voices:     map[string][]string{"alpha": {"v1"}, "beta": {"v2"}},
		Iterations: 2,
	}

	var calls [][2]int
	report := r.RunSuite(context.Background(), spec, func(completed, total int) {
		calls = append(calls, [2]int{completed, total})
	})

	if report.State != SuiteCompleted {
		t.Errorf("state: got %s, want %s", report.State, SuiteCompleted)
	}
	if report.Total != 12 || report.Completed != 12 {
		t.Fatalf("expected 12/12, got %d/%d", report.Completed, report.Total)
	}
	if len(report.Results) != 12 {
		t.Fatalf("expected 12 results, got %d", len(report.Results))
	}
	if len(calls) != 12 {
		t.Fatalf("expected 12 progress calls, got %d", len(calls))
	}
	for i, c := range calls {
		if c[0] != i+1 || c[1] != 12 {
			t.Errorf("progress call %d: got (%d,%d), want (%d,12)", i, c[0], c[1], i+1)
		}
	}
}

func TestRunSuitePartialFailure(t *testing.T) {
	ok := provider.NewMockAdapter("ok", femaleVoice("v1"))
	bad := provider.NewMockAdapter("bad", femaleVoice("v2"))
	bad.FailKind = provider.ErrKindHTTP
	r := New(map[string]provider.Adapter{"ok": ok, "bad": bad}, 2)

	report := r.RunSuite(context.Background(), SuiteSpec{
		Providers:  []string{"ok", "bad"},
		Samples:    []Sample{{ID: "s1", Text: "sample"}},
		Voices:     map[string][]string{"ok": {"v1"}, "bad": {"v2"}},
		Iterations: 1,
	}, nil)

	if report.State != SuitePartiallyFailed {
		t.Errorf("state: got %s, want %s", report.State, SuitePartiallyFailed)
	}
	if report.Completed != 2 {
		t.Errorf("both jobs should complete, got %d", report.Completed)
	}
}

func TestRunSuiteCancellation(t *testing.T) {
	slow := provider.NewMockAdapter("slow", femaleVoice("v1"))
	slow.Delay = 50 * time.Millisecond
	r := New(map[string]provider.Adapter{"slow": slow}, 1)

	var samples []Sample
	for i := 0; i < 20; i++ {
		samples = append(samples, Sample{ID: "s", Text: "sample"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan *SuiteReport)
	go func() {
		done <- r.RunSuite(ctx, SuiteSpec{
			Providers:  []string{"slow"},
			Samples:    samples,
			Voices:     map[string][]string{"slow": {"v1"}},
			Iterations: 1,
		}, nil)
	}()

	time.Sleep(120 * time.Millisecond)
	cancel()

	report := <-done
	if report.State != SuiteCancelled {
		t.Errorf("state: got %s, want %s", report.State, SuiteCancelled)
	}
	if report.Completed >= report.Total {
		t.Errorf("cancellation should leave work undone: %d/%d", report.Completed, report.Total)
	}
}

func TestRunSuiteEmptySpec(t *testing.T) {
	r := New(map[string]provider.Adapter{}, 2)
	report := r.RunSuite(context.Background(), SuiteSpec{}, nil)
	if report.State != SuiteCompleted || report.Total != 0 {
		t.Errorf("empty suite should complete trivially, got %+v", report)
	}
}

func TestRaceWinnerByTTFB(t *testing.T) {
	fast := provider.NewMockAdapter("fast", femaleVoice("v1"))
	slow := provider.NewMockAdapter("slow", femaleVoice("v2"))
	slow.Delay = 40 * time.Millisecond
	r := New(map[string]provider.Adapter{"fast": fast, "slow": slow}, 2)

	report := r.Race(context.Background(), "race text", []RaceEntry{
		{Provider: "fast", Voice: "v1"},
		{Provider: "slow", Voice: "v2"},
	})

	if report.Winner != "fast" {
		t.Errorf("winner: got %s, want fast", report.Winner)
	}
	if len(report.Ranked) != 2 || report.Ranked[0] != "fast" || report.Ranked[1] != "slow" {
		t.Errorf("ranking wrong: %v", report.Ranked)
	}
}

func TestRaceNoWinnerWithSingleSuccess(t *testing.T) {
	ok := provider.NewMockAdapter("ok", femaleVoice("v1"))
	bad := provider.NewMockAdapter("bad", femaleVoice("v2"))
	bad.FailKind = provider.ErrKindTimeout
	r := New(map[string]provider.Adapter{"ok": ok, "bad": bad}, 2)

	report := r.Race(context.Background(), "race text", []RaceEntry{
		{Provider: "ok", Voice: "v1"},
		{Provider: "bad", Voice: "v2"},
	})

	if report.Winner != "" {
		t.Errorf("a one-horse race has no winner, got %s", report.Winner)
	}
	if len(report.Results) != 2 {
		t.Errorf("all entries still report results, got %d", len(report.Results))
	}
}

func TestSummarize(t *testing.T) {
	results := []TestResult{
		{Provider: "a", Success: true, LatencyMs: 100, TTFBMs: 40, FileSizeBytes: 1000},
		{Provider: "a", Success: true, LatencyMs: 300, TTFBMs: 60, FileSizeBytes: 3000},
		{Provider: "a", Success: false, ErrorKind: provider.ErrKindTimeout},
		{Provider: "b", Success: false, ErrorKind: provider.ErrKindHTTP},
	}
	sums := Summarize(results)

	a := sums["a"]
	if a.Total != 3 || a.Successes != 2 {
		t.Fatalf("provider a counts wrong: %+v", a)
	}
	if a.AvgLatencyMs != 200 || a.AvgTTFBMs != 50 || a.AvgFileSize != 2000 {
		t.Errorf("provider a averages wrong: %+v", a)
	}
	if a.ErrorsByKind["timeout"] != 1 {
		t.Errorf("provider a error counts wrong: %+v", a.ErrorsByKind)
	}

	b := sums["b"]
	if b.SuccessRate != 0 || b.AvgLatencyMs != 0 {
		t.Errorf("all-failed provider must report zeros, not NaN: %+v", b)
	}
}
