package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/voicearena/ttsbench/internal/dataset"
	"github.com/voicearena/ttsbench/internal/provider"
	"github.com/voicearena/ttsbench/internal/queue"
	"github.com/voicearena/ttsbench/internal/results"
	"github.com/voicearena/ttsbench/internal/runner"
	"github.com/voicearena/ttsbench/internal/voice"
)

// SuiteWorker executes queued benchmark suites and persists the results.
type SuiteWorker struct {
	runner    *runner.Runner
	selector  *voice.Selector
	generator dataset.Generator
	store     *results.Store
}

func NewSuiteWorker(r *runner.Runner, sel *voice.Selector, gen dataset.Generator, store *results.Store) *SuiteWorker {
	return &SuiteWorker{runner: r, selector: sel, generator: gen, store: store}
}

func (w *SuiteWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.SuiteRunPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	slog.Info("running benchmark suite",
		"suite_id", payload.SuiteID, "providers", len(payload.Providers), "samples", payload.Samples)

	samples, err := w.generator.Generate(ctx, payload.Category, dataset.LengthBucket(payload.Bucket), payload.Samples)
	if err != nil {
		return fmt.Errorf("generate samples: %w", err)
	}

	spec := runner.SuiteSpec{
		Providers:  payload.Providers,
		Iterations: payload.Iterations,
		Voices:     payload.Voices,
	}
	for _, s := range samples {
		spec.Samples = append(spec.Samples, runner.Sample{ID: s.ID, Text: s.Text})
	}
	if len(spec.Voices) == 0 {
		spec.Voices = w.defaultVoices(payload.Providers)
	}

	report := w.runner.RunSuite(ctx, spec, func(completed, total int) {
		if completed%10 == 0 || completed == total {
			slog.Info("suite progress", "suite_id", payload.SuiteID, "completed", completed, "total", total)
		}
	})

	if err := w.store.Save(ctx, payload.SuiteID, report.Results); err != nil {
		return fmt.Errorf("save results: %w", err)
	}

	for id, s := range runner.Summarize(report.Results) {
		slog.Info("suite provider summary",
			"suite_id", payload.SuiteID, "provider", id,
			"success_rate", s.SuccessRate, "avg_latency_ms", s.AvgLatencyMs, "avg_ttfb_ms", s.AvgTTFBMs)
	}

	slog.Info("benchmark suite finished",
		"suite_id", payload.SuiteID, "state", report.State, "completed", report.Completed, "total", report.Total)
	return nil
}

// defaultVoices picks one voice per gender per provider. Providers with no
// match for a gender just skip that gender.
func (w *SuiteWorker) defaultVoices(providers []string) map[string][]string {
	out := make(map[string][]string, len(providers))
	for _, p := range providers {
		for _, g := range []provider.Gender{provider.GenderFemale, provider.GenderMale} {
			v, err := w.selector.Select(p, g, "", 0)
			if err != nil {
				var noMatch *voice.NoMatchingVoiceError
				if !errors.As(err, &noMatch) {
					slog.Warn("voice selection failed", "provider", p, "error", err)
				}
				continue
			}
			out[p] = append(out[p], v)
		}
	}
	return out
}
