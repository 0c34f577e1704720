package handlers

import (
	"net/http"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/services"
)

// SocialHandler — жалобы, сообщения и список друзей.
type SocialHandler struct {
	reports     services.ReportService
	messages    services.MessageService
	friendships services.FriendshipService
}

func NewSocialHandler(reports services.ReportService, messages services.MessageService, friendships services.FriendshipService) *SocialHandler {
	return &SocialHandler{reports: reports, messages: messages, friendships: friendships}
}

func (h *SocialHandler) ReportUser(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input models.ReportInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	env, err := h.reports.ReportUser(r.Context(), userID, input)
	if err != nil {
		mapErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusAccepted, jsonResponse{"status": env.Status, "message": env.Message})
}

func (h *SocialHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	res := h.messages.Conversations(r.Context())
	if !res.OK() {
		resultErrorResponse(w, r, res.Message)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"conversations": res.Data})
}

func (h *SocialHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res := h.messages.Thread(r.Context(), userID)
	if !res.OK() {
		resultErrorResponse(w, r, res.Message)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"messages": res.Data})
}

func (h *SocialHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input models.SendMessageInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	msg, err := h.messages.Send(r.Context(), userID, input)
	if err != nil {
		mapErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"message": msg})
}

func (h *SocialHandler) MarkThreadRead(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.messages.MarkThreadRead(r.Context(), userID); err != nil {
		mapErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SocialHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	messageID, err := getIDFromURL(r, "messageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.messages.Delete(r.Context(), messageID); err != nil {
		mapErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SocialHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	res := h.friendships.Friends(r.Context())
	if !res.OK() {
		resultErrorResponse(w, r, res.Message)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"friends": res.Data})
}

func (h *SocialHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	friendshipID, err := getIDFromURL(r, "friendshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.friendships.Remove(r.Context(), friendshipID); err != nil {
		mapErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
