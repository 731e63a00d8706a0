package runner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/voicearena/ttsbench/internal/provider"
)

// SuiteState describes how a suite finished.
type SuiteState string

const (
	SuiteCompleted       SuiteState = "completed"
	SuitePartiallyFailed SuiteState = "partially_failed"
	SuiteCancelled       SuiteState = "cancelled"
)

// TestResult is a single generation attempt, success or failure, with the
// identifying fields needed to aggregate across a suite.
type TestResult struct {
	TestID        string             `json:"test_id"`
	Provider      string             `json:"provider"`
	SampleID      string             `json:"sample_id,omitempty"`
	Text          string             `json:"text,omitempty"`
	Voice         string             `json:"voice"`
	Iteration     int                `json:"iteration"`
	Success       bool               `json:"success"`
	LatencyMs     float64            `json:"latency_ms"`
	TTFBMs        float64            `json:"ttfb_ms"`
	TTFBObserved  bool               `json:"ttfb_observed"`
	PingMs        float64            `json:"ping_ms,omitempty"`
	FileSizeBytes int                `json:"file_size_bytes"`
	Audio         []byte             `json:"-"`
	ErrorKind     provider.ErrorKind `json:"error_kind,omitempty"`
	ErrorMessage  string             `json:"error_message,omitempty"`
	Metadata      map[string]any     `json:"metadata,omitempty"`
	Timestamp     time.Time          `json:"timestamp"`
}

// ProgressFunc is invoked synchronously from the coordinating goroutine
// after each job completes. Implementations must not block for long.
type ProgressFunc func(completed, total int)

// SuiteSpec is the cross product to run: every provider x every sample x
// that provider's voices x iterations.
type SuiteSpec struct {
	Providers  []string
	Samples    []Sample
	Voices     map[string][]string // provider id -> voices to exercise
	Iterations int
}

// Sample is the text under test with its dataset identity.
type Sample struct {
	ID   string
	Text string
}

// SuiteReport is the outcome of RunSuite.
type SuiteReport struct {
	Results   []TestResult
	State     SuiteState
	Completed int
	Total     int
}

// Runner executes generation requests against a fixed adapter set with a
// bounded worker pool.
type Runner struct {
	adapters    map[string]provider.Adapter
	concurrency int
}

func New(adapters map[string]provider.Adapter, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{adapters: adapters, concurrency: concurrency}
}

func (r *Runner) Adapter(id string) (provider.Adapter, bool) {
	a, ok := r.adapters[id]
	return a, ok
}

// RunSingle executes one generation request. Validation failures come back
// as failed results without any network I/O.
func (r *Runner) RunSingle(ctx context.Context, providerID string, req provider.Request) TestResult {
	adapter, ok := r.adapters[providerID]
	if !ok {
		return TestResult{
			TestID:       uuid.NewString(),
			Provider:     providerID,
			Voice:        req.Voice,
			ErrorKind:    provider.ErrKindValidation,
			ErrorMessage: "provider " + providerID + " is not configured",
			Timestamp:    time.Now().UTC(),
		}
	}

	if err := adapter.Validate(req); err != nil {
		return fromProviderResult(providerID, req, &provider.Result{
			Provider:     providerID,
			Voice:        req.Voice,
			ErrorKind:    provider.ErrKindValidation,
			ErrorMessage: err.Error(),
		}, 0)
	}

	res := adapter.GenerateSpeech(ctx, req)
	return fromProviderResult(providerID, req, res, 0)
}

type job struct {
	provider  string
	sample    Sample
	voice     string
	iteration int
}

// RunSuite fans the suite's cross product across the worker pool. The
// progress callback fires once per completed job, in completion order, from
// a single goroutine. Cancellation stops dispatch; in-flight results
// arriving after ctx is done are discarded.
func (r *Runner) RunSuite(ctx context.Context, spec SuiteSpec, progress ProgressFunc) *SuiteReport {
	jobs := buildJobs(spec)
	total := len(jobs)
	report := &SuiteReport{Total: total, State: SuiteCompleted}
	if total == 0 {
		return report
	}

	jobCh := make(chan job)
	// Buffered so in-flight workers can finish after cancellation without
	// blocking on a coordinator that already returned.
	done := make(chan TestResult, total)

	for i := 0; i < r.concurrency; i++ {
		go func() {
			for j := range jobCh {
				done <- r.runJob(ctx, j)
			}
		}()
	}

	go func() {
		defer close(jobCh)
		for _, j := range jobs {
			select {
			case <-ctx.Done():
				return
			case jobCh <- j:
			}
		}
	}()

	anyFailed := false
	for report.Completed < total {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
		case res := <-done:
			if ctx.Err() != nil {
				break
			}
			report.Results = append(report.Results, res)
			report.Completed++
			if !res.Success {
				anyFailed = true
			}
			if progress != nil {
				progress(report.Completed, total)
			}
		}
	}

	switch {
	case ctx.Err() != nil:
		report.State = SuiteCancelled
	case anyFailed:
		report.State = SuitePartiallyFailed
	}
	return report
}

func (r *Runner) runJob(ctx context.Context, j job) TestResult {
	req := provider.Request{
		Text:     j.sample.Text,
		Voice:    j.voice,
		Provider: j.provider,
	}
	res := r.RunSingle(ctx, j.provider, req)
	res.SampleID = j.sample.ID
	res.Text = j.sample.Text
	res.Iteration = j.iteration
	return res
}

func buildJobs(spec SuiteSpec) []job {
	iterations := spec.Iterations
	if iterations < 1 {
		iterations = 1
	}
	var jobs []job
	for _, p := range spec.Providers {
		voices := spec.Voices[p]
		if len(voices) == 0 {
			continue
		}
		for _, s := range spec.Samples {
			for _, v := range voices {
				for it := 1; it <= iterations; it++ {
					jobs = append(jobs, job{provider: p, sample: s, voice: v, iteration: it})
				}
			}
		}
	}
	return jobs
}

func fromProviderResult(providerID string, req provider.Request, res *provider.Result, iteration int) TestResult {
	return TestResult{
		TestID:        uuid.NewString(),
		Provider:      providerID,
		Text:          req.Text,
		Voice:         res.Voice,
		Iteration:     iteration,
		Success:       res.Success,
		LatencyMs:     res.LatencyMs,
		TTFBMs:        res.TTFBMs,
		TTFBObserved:  res.TTFBObserved,
		PingMs:        res.PingMs,
		FileSizeBytes: res.FileSizeBytes,
		Audio:         res.Audio,
		ErrorKind:     res.ErrorKind,
		ErrorMessage:  res.ErrorMessage,
		Metadata:      res.Metadata,
		Timestamp:     time.Now().UTC(),
	}
}
