package provider

import (
	"context"
	"fmt"
	"time"
)

// Gender classifies a voice. The catalogue only carries the two values the
// vendor APIs themselves document.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ErrorKind categorizes a failed synthesis call.
type ErrorKind string

const (
	ErrKindValidation      ErrorKind = "validation"
	ErrKindTimeout         ErrorKind = "timeout"
	ErrKindConnection      ErrorKind = "connection_refused"
	ErrKindHTTP            ErrorKind = "http_error"
	ErrKindEmptyResponse   ErrorKind = "empty_response"
	ErrKindDecode          ErrorKind = "decode_error"
	ErrKindVoiceResolution ErrorKind = "voice_resolution"
	ErrKindUnknown         ErrorKind = "unknown"
)

// VoiceInfo is static per-voice metadata from the provider catalogue.
type VoiceInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
	Locale string `json:"locale"` // BCP-47-ish, e.g. "en-US"
}

// Descriptor is the static per-vendor record. Immutable after registry load
// and safe for concurrent reads.
type Descriptor struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	ModelName         string               `json:"model_name"`
	BaseURL           string               `json:"base_url"`
	APIKeyEnv         string               `json:"api_key_env"`
	MaxChars          int                  `json:"max_chars"`
	SupportsStreaming bool                 `json:"supports_streaming"`
	SupportedVoices   []string             `json:"supported_voices"`
	Voices            map[string]VoiceInfo `json:"voices"`
}

// Request is one synthesis call. Value type, constructed per call.
type Request struct {
	Text     string  `json:"text"`
	Voice    string  `json:"voice"`
	Provider string  `json:"provider"`
	Model    string  `json:"model,omitempty"`
	Speed    float64 `json:"speed,omitempty"`
	Format   string  `json:"format,omitempty"`
}

// Result is the outcome of one synthesis call. GenerateSpeech always returns
// one: failures are encoded here, never raised to the caller.
type Result struct {
	Provider      string         `json:"provider"`
	Voice         string         `json:"voice"`
	Success       bool           `json:"success"`
	LatencyMs     float64        `json:"latency_ms"`
	TTFBMs        float64        `json:"ttfb_ms"`
	TTFBObserved  bool           `json:"ttfb_observed"`
	PingMs        float64        `json:"ping_ms,omitempty"`
	FileSizeBytes int            `json:"file_size_bytes"`
	Audio         []byte         `json:"-"`
	ErrorKind     ErrorKind      `json:"error_kind,omitempty"`
	ErrorMessage  string         `json:"error_message,omitempty"`
	HTTPStatus    int            `json:"http_status,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// Adapter is the uniform capability contract each vendor implements.
//
// GenerateSpeech never returns an error: timeouts, bad status codes and
// malformed payloads all come back as a Result with Success=false and a
// categorized ErrorKind, with the elapsed time measured up to the failure.
// The runner fans adapters out concurrently and one vendor failing must not
// abort the batch.
type Adapter interface {
	ID() string
	Descriptor() *Descriptor

	// Validate checks the request against the descriptor before any network
	// I/O. A failure is a *ValidationError.
	Validate(req Request) error

	GenerateSpeech(ctx context.Context, req Request) *Result

	AvailableVoices() []string

	// MeasurePingLatency issues a best-effort minimal request to separate raw
	// network RTT from synthesis work. Returns 0 when unavailable.
	MeasurePingLatency(ctx context.Context) float64

	// SupportsDynamicVoiceCatalogue reports whether the vendor resolves
	// friendly voice names through a lazily fetched name→id directory.
	SupportsDynamicVoiceCatalogue() bool
}

// VoiceResolver is implemented by adapters with a dynamic voice catalogue.
type VoiceResolver interface {
	// ResolveVoice maps a friendly voice name to the vendor-internal id.
	// An unmappable name is a *VoiceResolutionError, never a substitute voice.
	ResolveVoice(ctx context.Context, name string) (string, error)
}

// ValidationError is a pre-flight rejection; no network call was made.
type ValidationError struct {
	Provider string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid request: %s", e.Provider, e.Reason)
}

// VoiceResolutionError means a friendly voice name could not be mapped to a
// vendor id.
type VoiceResolutionError struct {
	Provider string
	Voice    string
	Known    []string
}

func (e *VoiceResolutionError) Error() string {
	return fmt.Sprintf("%s: voice %q not found in vendor catalogue", e.Provider, e.Voice)
}

// validate implements the shared descriptor checks. Both checks run before
// any network I/O.
func validate(d *Descriptor, req Request) error {
	if len(req.Text) > d.MaxChars {
		return &ValidationError{
			Provider: d.ID,
			Reason:   fmt.Sprintf("text exceeds maximum length of %d characters", d.MaxChars),
		}
	}
	if !contains(d.SupportedVoices, req.Voice) {
		return &ValidationError{
			Provider: d.ID,
			Reason:   fmt.Sprintf("voice %q not supported", req.Voice),
		}
	}
	return nil
}

func contains(voices []string, v string) bool {
	for _, s := range voices {
		if s == v {
			return true
		}
	}
	return false
}

// failedResult builds a Result for a call that never produced audio.
func failedResult(providerID, voice string, kind ErrorKind, msg string, elapsed time.Duration) *Result {
	return &Result{
		Provider:     providerID,
		Voice:        voice,
		Success:      false,
		LatencyMs:    float64(elapsed.Microseconds()) / 1000,
		ErrorKind:    kind,
		ErrorMessage: msg,
		Metadata:     map[string]any{"provider": providerID},
	}
}
