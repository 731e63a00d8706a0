package provider

import (
	"context"
	"time"
)

const cartesiaVersion = "2024-06-10"

// cartesiaVoiceIDs maps friendly voice names to Cartesia voice ids. The map
// is shared across the Sonic model generations.
var cartesiaVoiceIDs = map[string]string{
	"British Lady":         "79a125e8-cd45-4c13-8a67-188112f4dd22",
	"Conversational Lady":  "a0e99841-438c-4a64-b679-ae501e7d6091",
	"Classy British Man":   "63ff761f-c1e8-414b-b969-d1833d1c870c",
	"Friendly Reading Man": "5619d38c-cf51-4d8e-9575-48f61a280413",
	"Midwestern Woman":     "a3520a8f-226a-428d-9fcd-b0a4711a6829",
	"Professional Man":     "41534e16-2966-4c6b-9670-111411def906",
}

// CartesiaAdapter drives the Sonic bytes endpoint. The descriptor's
// ModelName selects the generation (sonic-2, sonic-turbo, sonic-3).
type CartesiaAdapter struct {
	baseAdapter
}

func NewCartesiaAdapter(desc *Descriptor, apiKey string, timeout, pingTimeout time.Duration) *CartesiaAdapter {
	return &CartesiaAdapter{
		baseAdapter: newBaseAdapter(desc, apiKey, timeout, pingTimeout, map[string]string{
			"X-API-Key":        apiKey,
			"Cartesia-Version": cartesiaVersion,
		}),
	}
}

func (a *CartesiaAdapter) GenerateSpeech(ctx context.Context, req Request) *Result {
	if err := a.Validate(req); err != nil {
		return a.validationResult(req, err)
	}

	// An unmapped name is a hard failure; substituting another voice would
	// invalidate downstream comparisons.
	voiceID, ok := cartesiaVoiceIDs[req.Voice]
	if !ok {
		resErr := &VoiceResolutionError{Provider: a.desc.ID, Voice: req.Voice}
		return failedResult(a.desc.ID, req.Voice, ErrKindVoiceResolution, resErr.Error(), 0)
	}

	payload := map[string]any{
		"model_id":   a.desc.ModelName,
		"transcript": req.Text,
		"voice": map[string]any{
			"mode": "id",
			"id":   voiceID,
		},
		"language": "en",
		"output_format": map[string]any{
			"container":   "mp3",
			"encoding":    "mp3",
			"sample_rate": 44100,
		},
	}

	w := a.caller.post(ctx, wireCall{
		url: a.desc.BaseURL,
		headers: map[string]string{
			"X-API-Key":        a.apiKey,
			"Cartesia-Version": cartesiaVersion,
		},
		payload: payload,
	})

	return a.resultFromWire(req, w, map[string]any{
		"model":       a.desc.ModelName,
		"voice":       req.Voice,
		"voice_id":    voiceID,
		"format":      "mp3",
		"sample_rate": 44100,
	})
}
