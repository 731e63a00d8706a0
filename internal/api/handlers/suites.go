package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/voicearena/ttsbench/internal/dataset"
	"github.com/voicearena/ttsbench/internal/queue"
	"github.com/voicearena/ttsbench/internal/results"
)

// SuitesHandler enqueues background benchmark suites and serves their
// persisted results.
type SuitesHandler struct {
	queue   *queue.Client
	results *results.Store
}

func NewSuitesHandler(qc *queue.Client, res *results.Store) *SuitesHandler {
	return &SuitesHandler{queue: qc, results: res}
}

type suiteRequest struct {
	Providers  []string            `json:"providers"`
	Category   string              `json:"category,omitempty"`
	Bucket     string              `json:"length_bucket,omitempty"`
	Samples    int                 `json:"samples,omitempty"`
	Iterations int                 `json:"iterations,omitempty"`
	Voices     map[string][]string `json:"voices,omitempty"`
}

func (h *SuitesHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req suiteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Providers) == 0 {
		writeError(w, http.StatusBadRequest, "providers are required")
		return
	}
	if req.Category == "" {
		req.Category = dataset.CategoryConversation
	}
	if req.Samples < 1 {
		req.Samples = 3
	}
	if req.Iterations < 1 {
		req.Iterations = 1
	}

	suiteID := uuid.NewString()
	err := h.queue.EnqueueSuiteRun(queue.SuiteRunPayload{
		SuiteID:    suiteID,
		Providers:  req.Providers,
		Category:   req.Category,
		Bucket:     req.Bucket,
		Samples:    req.Samples,
		Iterations: req.Iterations,
		Voices:     req.Voices,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"suite_id": suiteID, "status": "queued"})
}

func (h *SuitesHandler) RecentResults(w http.ResponseWriter, r *http.Request) {
	res, err := h.results.Recent(r.Context(), 100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": res})
}
