package runner

import (
	"context"
	"sort"
	"sync"

	"github.com/voicearena/ttsbench/internal/provider"
)

// RaceReport holds the per-provider results of a head-to-head run and the
// winner by time to first byte. Winner is empty when fewer than two
// providers succeeded, since a one-horse race decides nothing.
type RaceReport struct {
	Results []TestResult `json:"results"`
	Winner  string       `json:"winner,omitempty"`
	Ranked  []string     `json:"ranked,omitempty"`
}

// RaceEntry pairs a provider with the voice it races under.
type RaceEntry struct {
	Provider string
	Voice    string
}

// Race fires the same text at every entry concurrently and ranks the
// successes by TTFB.
func (r *Runner) Race(ctx context.Context, text string, entries []RaceEntry) *RaceReport {
	results := make([]TestResult, len(entries))

	var wg sync.WaitGroup
	for i, e := range entries {
		wg.Add(1)
		go func(i int, e RaceEntry) {
			defer wg.Done()
			results[i] = r.RunSingle(ctx, e.Provider, providerRequest(text, e))
		}(i, e)
	}
	wg.Wait()

	report := &RaceReport{Results: results}

	var winners []TestResult
	for _, res := range results {
		if res.Success {
			winners = append(winners, res)
		}
	}
	if len(winners) < 2 {
		return report
	}

	sort.SliceStable(winners, func(i, j int) bool { return winners[i].TTFBMs < winners[j].TTFBMs })
	report.Winner = winners[0].Provider
	for _, w := range winners {
		report.Ranked = append(report.Ranked, w.Provider)
	}
	return report
}

func providerRequest(text string, e RaceEntry) provider.Request {
	return provider.Request{Text: text, Voice: e.Voice, Provider: e.Provider}
}
