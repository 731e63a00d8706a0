package handlers

import (
	"net/http"
	"strconv"

	"github.com/voicearena/ttsbench/internal/dataset"
)

// SamplesHandler serves test texts for blind tests and manual suites.
type SamplesHandler struct {
	generator dataset.Generator
}

func NewSamplesHandler(gen dataset.Generator) *SamplesHandler {
	return &SamplesHandler{generator: gen}
}

func (h *SamplesHandler) Generate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("category")
	if category == "" {
		category = dataset.CategoryConversation
	}
	bucket := dataset.LengthBucket(q.Get("length_bucket"))
	count := 1
	if c := q.Get("count"); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil || n < 1 || n > 20 {
			writeError(w, http.StatusBadRequest, "count must be between 1 and 20")
			return
		}
		count = n
	}

	samples, err := h.generator.Generate(r.Context(), category, bucket, count)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"samples": samples})
}
