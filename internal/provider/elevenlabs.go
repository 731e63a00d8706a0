package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"
)

// elevenLabsFallbackIDs are the published voice ids used when the account
// directory cannot be fetched.
var elevenLabsFallbackIDs = map[string]string{
	"Laura":     "FGY2WhTYpPnrIDTdsKH5",
	"Jessica":   "cgSgspJ2msm6clMCkdW9",
	"Liam":      "TX3LPaxmHKxFdv7VOQHJ",
	"Elizabeth": "MF3mGyEYCl7XYWbV9V6O",
	"Shelley":   "DWAVQCwqGrmKZMpKIqGa",
	"Dan":       "TxGEqnHWrfWFTfGW9XjX",
	"Nathaniel": "N2lVS1w4EtoT3dr4eOWO",
}

// ElevenLabsAdapter drives the text-to-speech endpoint. ElevenLabs addresses
// voices by vendor-internal id, so friendly names go through a name→id
// directory fetched once per process from the voices endpoint.
type ElevenLabsAdapter struct {
	baseAdapter
	voicesURL string

	mu       sync.Mutex
	voiceIDs map[string]string
	fetched  bool
}

func NewElevenLabsAdapter(desc *Descriptor, apiKey string, timeout, pingTimeout time.Duration) *ElevenLabsAdapter {
	return &ElevenLabsAdapter{
		baseAdapter: newBaseAdapter(desc, apiKey, timeout, pingTimeout, map[string]string{"xi-api-key": apiKey}),
		voicesURL:   "https://api.elevenlabs.io/v1/voices",
	}
}

func (a *ElevenLabsAdapter) SupportsDynamicVoiceCatalogue() bool { return true }

// ResolveVoice maps a friendly voice name to the vendor id, fetching the
// account directory on first use. Unmappable names fail; no substitute
// voice is ever returned.
func (a *ElevenLabsAdapter) ResolveVoice(ctx context.Context, name string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.fetched {
		a.fetchDirectoryLocked(ctx)
	}

	if id, ok := a.voiceIDs[name]; ok {
		return id, nil
	}
	if id, ok := elevenLabsFallbackIDs[name]; ok {
		return id, nil
	}
	return "", &VoiceResolutionError{Provider: a.desc.ID, Voice: name, Known: a.knownNamesLocked()}
}

func (a *ElevenLabsAdapter) fetchDirectoryLocked(ctx context.Context) {
	a.fetched = true
	a.voiceIDs = map[string]string{}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.voicesURL, nil)
	if err != nil {
		return
	}
	req.Header.Set("xi-api-key", a.apiKey)

	resp, err := a.caller.client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return
	}

	var directory struct {
		Voices []struct {
			Name    string `json:"name"`
			VoiceID string `json:"voice_id"`
		} `json:"voices"`
	}
	if err := json.Unmarshal(body, &directory); err != nil {
		return
	}
	for _, v := range directory.Voices {
		if v.Name != "" && v.VoiceID != "" {
			a.voiceIDs[v.Name] = v.VoiceID
		}
	}
}

func (a *ElevenLabsAdapter) knownNamesLocked() []string {
	names := make([]string, 0, len(a.voiceIDs))
	for n := range a.voiceIDs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (a *ElevenLabsAdapter) GenerateSpeech(ctx context.Context, req Request) *Result {
	start := time.Now()

	if err := a.Validate(req); err != nil {
		return a.validationResult(req, err)
	}

	voiceID, err := a.ResolveVoice(ctx, req.Voice)
	if err != nil {
		return failedResult(a.desc.ID, req.Voice, ErrKindVoiceResolution, err.Error(), time.Since(start))
	}

	payload := map[string]any{
		"text":     req.Text,
		"model_id": a.desc.ModelName,
		"voice_settings": map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	}

	w := a.caller.post(ctx, wireCall{
		url:     fmt.Sprintf("%s/%s", a.desc.BaseURL, voiceID),
		headers: map[string]string{"xi-api-key": a.apiKey},
		payload: payload,
	})

	return a.resultFromWire(req, w, map[string]any{
		"model":    a.desc.ModelName,
		"voice":    req.Voice,
		"voice_id": voiceID,
		"format":   "mp3_44100_128",
	})
}
