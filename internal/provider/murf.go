package provider

import (
	"context"
	"strings"
	"time"
)

// MurfAdapter drives Murf's Falcon global stream endpoint.
type MurfAdapter struct {
	baseAdapter
}

func NewMurfAdapter(desc *Descriptor, apiKey string, timeout, pingTimeout time.Duration) *MurfAdapter {
	return &MurfAdapter{
		baseAdapter: newBaseAdapter(desc, apiKey, timeout, pingTimeout, map[string]string{"api-key": apiKey}),
	}
}

func (a *MurfAdapter) GenerateSpeech(ctx context.Context, req Request) *Result {
	if err := a.Validate(req); err != nil {
		return a.validationResult(req, err)
	}

	payload := map[string]any{
		"voice_id":            req.Voice,
		"text":                req.Text,
		"multi_native_locale": murfLocale(req.Voice),
		"model":               "FALCON",
		"format":              "MP3",
		"sampleRate":          24000,
		"channelType":         "MONO",
	}
	if req.Speed > 0 && req.Speed != 1.0 {
		payload["rate"] = req.Speed
	}

	w := a.caller.post(ctx, wireCall{
		url:     a.desc.BaseURL,
		headers: map[string]string{"api-key": a.apiKey},
		payload: payload,
	})

	return a.resultFromWire(req, w, map[string]any{
		"model":  a.desc.ModelName,
		"voice":  req.Voice,
		"format": "mp3",
	})
}

// murfLocale extracts the locale a voice id encodes, e.g. "en-US-matthew"
// carries "en-US".
func murfLocale(voiceID string) string {
	parts := strings.SplitN(voiceID, "-", 3)
	if len(parts) < 2 {
		return "en-US"
	}
	return parts[0] + "-" + parts[1]
}
