package provider

import (
	"context"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIAdapter uses the official SDK rather than the shared wire caller.
// The SDK hands back the raw response stream, which preserves the
// first-byte boundary needed for TTFB.
type OpenAIAdapter struct {
	baseAdapter
	client *openai.Client
}

func NewOpenAIAdapter(desc *Descriptor, apiKey string, timeout, pingTimeout time.Duration) *OpenAIAdapter {
	return &OpenAIAdapter{
		baseAdapter: newBaseAdapter(desc, apiKey, timeout, pingTimeout, nil),
		client:      openai.NewClient(apiKey),
	}
}

func (a *OpenAIAdapter) GenerateSpeech(ctx context.Context, req Request) *Result {
	if err := a.Validate(req); err != nil {
		return a.validationResult(req, err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.caller.timeout)
	defer cancel()

	speed := req.Speed
	if speed == 0 {
		speed = 1.0
	}

	start := time.Now()
	resp, err := a.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(a.desc.ModelName),
		Input:          req.Text,
		Voice:          openai.SpeechVoice(strings.ToLower(req.Voice)),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          speed,
	})
	if err != nil {
		kind, msg := classifyTransportErr(err)
		if kind == ErrKindUnknown {
			kind = ErrKindHTTP
		}
		return failedResult(a.desc.ID, req.Voice, kind, msg, time.Since(start))
	}
	defer resp.Close()

	var first [1]byte
	n, err := resp.Read(first[:])
	ttfb := msSince(start)
	if err != nil && err != io.EOF {
		kind, msg := classifyTransportErr(err)
		return failedResult(a.desc.ID, req.Voice, kind, msg, time.Since(start))
	}

	rest, err := io.ReadAll(resp)
	latency := msSince(start)
	if err != nil {
		kind, msg := classifyTransportErr(err)
		return failedResult(a.desc.ID, req.Voice, kind, msg, time.Since(start))
	}

	audio := append(first[:n], rest...)
	if len(audio) == 0 {
		return failedResult(a.desc.ID, req.Voice, ErrKindEmptyResponse, "empty audio response from API", time.Since(start))
	}

	return &Result{
		Provider:      a.desc.ID,
		Voice:         req.Voice,
		Success:       true,
		LatencyMs:     latency,
		TTFBMs:        ttfb,
		TTFBObserved:  true,
		FileSizeBytes: len(audio),
		Audio:         audio,
		Metadata: map[string]any{
			"provider": a.desc.ID,
			"model":    a.desc.ModelName,
			"voice":    strings.ToLower(req.Voice),
			"speed":    speed,
			"format":   "mp3",
		},
	}
}
