package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// SarvamAdapter drives the bulbul endpoint. Sarvam returns audio as base64
// inside a JSON envelope rather than raw bytes, and offers no streaming
// boundary, so the descriptor marks it non-streaming and TTFB is reported
// equal to total latency.
type SarvamAdapter struct {
	baseAdapter
}

func NewSarvamAdapter(desc *Descriptor, apiKey string, timeout, pingTimeout time.Duration) *SarvamAdapter {
	return &SarvamAdapter{
		baseAdapter: newBaseAdapter(desc, apiKey, timeout, pingTimeout, map[string]string{"api-subscription-key": apiKey}),
	}
}

func (a *SarvamAdapter) GenerateSpeech(ctx context.Context, req Request) *Result {
	if err := a.Validate(req); err != nil {
		return a.validationResult(req, err)
	}

	language := "hi-IN"
	if strings.HasPrefix(req.Voice, "en-IN") {
		language = "en-IN"
	}

	w := a.caller.post(ctx, wireCall{
		url:     a.desc.BaseURL,
		headers: map[string]string{"api-subscription-key": a.apiKey},
		payload: map[string]any{
			"text":     req.Text,
			"model":    a.desc.ModelName,
			"language": language,
		},
	})

	meta := map[string]any{
		"model":    a.desc.ModelName,
		"voice":    req.Voice,
		"language": language,
		"format":   "mp3",
	}

	if w.kind != "" || !strings.Contains(strings.ToLower(w.contentType), "application/json") {
		// Transport/HTTP failures, and the direct-audio response variant,
		// follow the common path.
		return a.resultFromWire(req, w, meta)
	}

	audio, err := decodeSarvamEnvelope(w.body)
	if err != nil {
		res := a.resultFromWire(req, w, meta)
		res.Success = false
		res.Audio = nil
		res.FileSizeBytes = 0
		res.ErrorKind = ErrKindDecode
		res.ErrorMessage = err.Error()
		return res
	}

	res := a.resultFromWire(req, w, meta)
	res.Audio = audio
	res.FileSizeBytes = len(audio)
	return res
}

type sarvamEnvelope struct {
	Audios       []string `json:"audios"`
	AudioContent string   `json:"audioContent"`
	Audio        string   `json:"audio"`
	RequestID    string   `json:"request_id"`
}

// decodeSarvamEnvelope handles the base64 field variants the API has been
// observed to return.
func decodeSarvamEnvelope(body []byte) ([]byte, error) {
	var env sarvamEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &decodeError{msg: "malformed JSON audio envelope: " + err.Error()}
	}

	encoded := env.AudioContent
	if len(env.Audios) > 0 {
		encoded = env.Audios[0]
	} else if encoded == "" {
		encoded = env.Audio
	}
	if encoded == "" {
		return nil, &decodeError{msg: "JSON response carries no audio field"}
	}

	audio, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &decodeError{msg: "invalid base64 audio: " + err.Error()}
	}
	if len(audio) == 0 {
		return nil, &decodeError{msg: "decoded audio is empty"}
	}
	return audio, nil
}

type decodeError struct{ msg string }

func (e *decodeError) Error() string { return e.msg }
