package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voicearena/ttsbench/internal/provider"
)

type ProvidersHandler struct {
	registry *provider.Registry
}

func NewProvidersHandler(reg *provider.Registry) *ProvidersHandler {
	return &ProvidersHandler{registry: reg}
}

type providerView struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Model             string   `json:"model"`
	MaxChars          int      `json:"max_chars"`
	SupportsStreaming bool     `json:"supports_streaming"`
	Configured        bool     `json:"configured"`
	Voices            []string `json:"voices"`
}

func (h *ProvidersHandler) List(w http.ResponseWriter, r *http.Request) {
	configured := h.registry.Configured()

	var out []providerView
	for _, d := range h.registry.Descriptors() {
		out = append(out, providerView{
			ID:                d.ID,
			Name:              d.Name,
			Model:             d.ModelName,
			MaxChars:          d.MaxChars,
			SupportsStreaming: d.SupportsStreaming,
			Configured:        configured[d.ID],
			Voices:            d.SupportedVoices,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"providers": out})
}

func (h *ProvidersHandler) Voices(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	desc, err := h.registry.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	type voiceView struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Gender string `json:"gender"`
		Locale string `json:"locale"`
	}
	var voices []voiceView
	for _, vid := range desc.SupportedVoices {
		info := desc.Voices[vid]
		voices = append(voices, voiceView{ID: vid, Name: info.Name, Gender: string(info.Gender), Locale: info.Locale})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"provider": id, "voices": voices})
}
