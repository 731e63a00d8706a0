package provider

import (
	"context"
	"net/url"
	"time"
)

// DeepgramAdapter drives the Aura speak endpoint. The same implementation
// covers Aura 1 and Aura 2; the descriptor's voice list selects the family.
type DeepgramAdapter struct {
	baseAdapter
}

func NewDeepgramAdapter(desc *Descriptor, apiKey string, timeout, pingTimeout time.Duration) *DeepgramAdapter {
	return &DeepgramAdapter{
		baseAdapter: newBaseAdapter(desc, apiKey, timeout, pingTimeout, map[string]string{"Authorization": "Token " + apiKey}),
	}
}

func (a *DeepgramAdapter) GenerateSpeech(ctx context.Context, req Request) *Result {
	if err := a.Validate(req); err != nil {
		return a.validationResult(req, err)
	}

	// Deepgram addresses the voice as the model query parameter.
	params := url.Values{}
	params.Set("model", req.Voice)
	if req.Format != "" && req.Format != "mp3" {
		params.Set("encoding", "linear16")
		params.Set("sample_rate", "24000")
	} else {
		params.Set("encoding", "mp3")
	}

	w := a.caller.post(ctx, wireCall{
		url:     a.desc.BaseURL + "?" + params.Encode(),
		headers: map[string]string{"Authorization": "Token " + a.apiKey},
		payload: map[string]any{"text": req.Text},
	})

	return a.resultFromWire(req, w, map[string]any{
		"model":       req.Voice,
		"voice":       req.Voice,
		"format":      req.Format,
		"sample_rate": 24000,
	})
}
