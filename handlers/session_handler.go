package handlers

import (
	"net/http"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/session"
)

type SessionHandler struct {
	sessions *session.Manager
}

func NewSessionHandler(sessions *session.Manager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type setSessionInput struct {
	Token string `json:"token"`
}

// SetSession сохраняет токен, полученный UI после входа.
func (h *SessionHandler) SetSession(w http.ResponseWriter, r *http.Request) {
	var input setSessionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.sessions.SetToken(r.Context(), input.Token); err != nil {
		mapErrorToHTTP(w, r, err)
		return
	}

	userID, err := h.sessions.CurrentUserID(r.Context())
	if err != nil {
		mapErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, jsonResponse{"user_id": userID})
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, err := h.sessions.CurrentUserID(r.Context())
	if err != nil {
		mapErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"user_id": userID})
}

func (h *SessionHandler) ClearSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ClearToken(r.Context()); err != nil {
		mapErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
