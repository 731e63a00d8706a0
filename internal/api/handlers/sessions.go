package handlers

import (
	"net/http"

	"github.com/voicearena/ttsbench/internal/session"
)

type SessionsHandler struct {
	sessions *session.Manager
}

func NewSessionsHandler(m *session.Manager) *SessionsHandler {
	return &SessionsHandler{sessions: m}
}

// Create issues a fresh anonymous voting session.
func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	sessionID, token, err := h.sessions.Issue()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"session_id": sessionID,
		"token":      token,
	})
}
