package provider

import (
	"context"
	"sync"
	"time"
)

// MockAdapter is an in-memory adapter for tests and local runs. It records
// every request it receives and answers with a canned result.
type MockAdapter struct {
	Desc *Descriptor

	// Delay is slept inside GenerateSpeech unless the context fires first.
	Delay time.Duration
	// FailKind, when set, makes every call fail with this kind.
	FailKind ErrorKind
	// AudioSize is the byte length of the fake audio payload.
	AudioSize int
	// PingMs is returned by MeasurePingLatency.
	PingMs float64

	mu    sync.Mutex
	calls []Request
}

func NewMockAdapter(id string, voices []VoiceInfo) *MockAdapter {
	ids, table := voiceTable(voices)
	return &MockAdapter{
		Desc: &Descriptor{
			ID:                id,
			Name:              id,
			ModelName:         "mock-1",
			MaxChars:          3000,
			SupportsStreaming: true,
			SupportedVoices:   ids,
			Voices:            table,
		},
		AudioSize: 12345,
	}
}

func (m *MockAdapter) ID() string { return m.Desc.ID }

func (m *MockAdapter) Descriptor() *Descriptor { return m.Desc }

func (m *MockAdapter) AvailableVoices() []string { return m.Desc.SupportedVoices }

func (m *MockAdapter) Validate(req Request) error { return validate(m.Desc, req) }

func (m *MockAdapter) SupportsDynamicVoiceCatalogue() bool { return false }

func (m *MockAdapter) MeasurePingLatency(ctx context.Context) float64 { return m.PingMs }

// Calls returns a copy of every request seen so far.
func (m *MockAdapter) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockAdapter) GenerateSpeech(ctx context.Context, req Request) *Result {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	start := time.Now()

	if err := m.Validate(req); err != nil {
		return failedResult(m.Desc.ID, req.Voice, ErrKindValidation, err.Error(), 0)
	}

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return failedResult(m.Desc.ID, req.Voice, ErrKindTimeout, "request timeout", time.Since(start))
		}
	}

	if m.FailKind != "" {
		return failedResult(m.Desc.ID, req.Voice, m.FailKind, "mock failure", time.Since(start))
	}

	latency := msSince(start)
	return &Result{
		Provider:      m.Desc.ID,
		Voice:         req.Voice,
		Success:       true,
		LatencyMs:     latency,
		TTFBMs:        latency / 2,
		TTFBObserved:  true,
		PingMs:        m.PingMs,
		FileSizeBytes: m.AudioSize,
		Audio:         make([]byte, m.AudioSize),
		Metadata:      map[string]any{"provider": m.Desc.ID},
	}
}
