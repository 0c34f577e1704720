package handlers

import (
	"context"
	"net/http"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/screens"
)

// ScreenHandler отдаёт модели представления экранов тонкому UI.
type ScreenHandler struct {
	registry *screens.Registry
}

func NewScreenHandler(registry *screens.Registry) *ScreenHandler {
	return &ScreenHandler{registry: registry}
}

// GetEventDetail: первый запрос монтирует экран, следующие — фокусируют (перечитывают).
func (h *ScreenHandler) GetEventDetail(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	state := h.registry.OpenEventDetail(r.Context(), eventID)
	respond(w, r, http.StatusOK, jsonResponse{"screen": state})
}

func (h *ScreenHandler) CloseEventDetail(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if !h.registry.CloseEventDetail(eventID) {
		notFoundResponse(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ScreenHandler) JoinEvent(w http.ResponseWriter, r *http.Request) {
	h.withEventDetail(w, r, func(d *screens.EventDetail) screens.Outcome {
		return d.Join(r.Context())
	})
}

func (h *ScreenHandler) RequestLeave(w http.ResponseWriter, r *http.Request) {
	h.withEventDetail(w, r, func(d *screens.EventDetail) screens.Outcome {
		return d.RequestLeave()
	})
}

func (h *ScreenHandler) ConfirmLeave(w http.ResponseWriter, r *http.Request) {
	h.withEventDetail(w, r, func(d *screens.EventDetail) screens.Outcome {
		return d.ConfirmLeave(r.Context())
	})
}

func (h *ScreenHandler) CancelLeave(w http.ResponseWriter, r *http.Request) {
	h.withEventDetail(w, r, func(d *screens.EventDetail) screens.Outcome {
		d.CancelLeave()
		return screens.Outcome{Kind: screens.OutcomeInfo}
	})
}

// withEventDetail выполняет действие на открытом экране и возвращает исход вместе с новым состоянием.
func (h *ScreenHandler) withEventDetail(w http.ResponseWriter, r *http.Request, action func(d *screens.EventDetail) screens.Outcome) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	d, ok := h.registry.EventDetail(eventID)
	if !ok {
		conflictResponse(w, r, "event screen is not open; GET it first")
		return
	}

	out := action(d)
	respond(w, r, http.StatusOK, jsonResponse{"outcome": out, "screen": d.Snapshot()})
}

func (h *ScreenHandler) GetFriendRequests(w http.ResponseWriter, r *http.Request) {
	state := h.registry.FriendRequests.Load(r.Context())
	respond(w, r, http.StatusOK, jsonResponse{"screen": state})
}

func (h *ScreenHandler) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	h.friendRequestAction(w, r, h.registry.FriendRequests.Accept)
}

func (h *ScreenHandler) RejectFriendRequest(w http.ResponseWriter, r *http.Request) {
	h.friendRequestAction(w, r, h.registry.FriendRequests.Reject)
}

func (h *ScreenHandler) friendRequestAction(w http.ResponseWriter, r *http.Request, action func(context.Context, models.ID) error) {
	requestID, err := getIDFromURL(r, "requestID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := action(r.Context(), requestID); err != nil {
		mapErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"screen": h.registry.FriendRequests.State()})
}

func (h *ScreenHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	state := h.registry.Notifications.Load(r.Context())
	respond(w, r, http.StatusOK, jsonResponse{
		"screen":       state,
		"unread_count": h.registry.Notifications.UnreadCount(),
	})
}

func (h *ScreenHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	notificationID, err := getIDFromURL(r, "notificationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.registry.Notifications.MarkRead(r.Context(), notificationID); err != nil {
		mapErrorToHTTP(w, r, err)
		return
	}
	h.writeNotifications(w, r)
}

func (h *ScreenHandler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Notifications.MarkAllRead(r.Context()); err != nil {
		mapErrorToHTTP(w, r, err)
		return
	}
	h.writeNotifications(w, r)
}

func (h *ScreenHandler) writeNotifications(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, jsonResponse{
		"screen":       h.registry.Notifications.State(),
		"unread_count": h.registry.Notifications.UnreadCount(),
	})
}

func (h *ScreenHandler) GetParticipatedEvents(w http.ResponseWriter, r *http.Request) {
	state := h.registry.Participated.Mount(r.Context())
	respond(w, r, http.StatusOK, jsonResponse{"screen": state})
}
