package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/voicearena/ttsbench/internal/provider"
	"github.com/voicearena/ttsbench/internal/runner"
	"github.com/voicearena/ttsbench/internal/voice"
)

// TestsHandler serves one-off generation tests.
type TestsHandler struct {
	runner   *runner.Runner
	selector *voice.Selector
}

func NewTestsHandler(r *runner.Runner, sel *voice.Selector) *TestsHandler {
	return &TestsHandler{runner: r, selector: sel}
}

type quickTestRequest struct {
	Provider     string  `json:"provider"`
	Text         string  `json:"text"`
	Voice        string  `json:"voice,omitempty"`
	Gender       string  `json:"gender,omitempty"`
	Locale       string  `json:"locale,omitempty"`
	Speed        float64 `json:"speed,omitempty"`
	IncludePing  bool    `json:"include_ping,omitempty"`
	IncludeAudio bool    `json:"include_audio,omitempty"`
}

func (h *TestsHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req quickTestRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Provider == "" || req.Text == "" {
		writeError(w, http.StatusBadRequest, "provider and text are required")
		return
	}

	adapter, ok := h.runner.Adapter(req.Provider)
	if !ok {
		writeError(w, http.StatusNotFound, "provider "+req.Provider+" is not configured")
		return
	}

	voiceName := req.Voice
	if voiceName == "" {
		gender := provider.GenderFemale
		if req.Gender != "" {
			gender = provider.Gender(req.Gender)
		}
		// Adapters resolve friendly names to vendor ids themselves; the
		// selector's resolution here surfaces catalogue problems before
		// the paid call.
		name, _, err := h.selector.SelectResolved(r.Context(), adapter, gender, req.Locale, 0)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		voiceName = name
	}

	res := h.runner.RunSingle(r.Context(), req.Provider, provider.Request{
		Text:     req.Text,
		Voice:    voiceName,
		Provider: req.Provider,
		Speed:    req.Speed,
	})

	if req.IncludePing {
		res.PingMs = adapter.MeasurePingLatency(r.Context())
	}

	body := map[string]interface{}{"result": res}
	if req.IncludeAudio && res.Success {
		body["audio_base64"] = base64.StdEncoding.EncodeToString(res.Audio)
	}
	writeJSON(w, http.StatusOK, body)
}
