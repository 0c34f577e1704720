package handlers

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/connectivity"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/services"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/storage"
)

const maxCoverSize = 10 << 20 // 10MB

type EventHandler struct {
	events  services.EventService
	ratings services.RatingService
}

func NewEventHandler(events services.EventService, ratings services.RatingService) *EventHandler {
	return &EventHandler{events: events, ratings: ratings}
}

// CreateEvent принимает multipart (поле event с JSON и необязательный файл cover)
// или обычный JSON без обложки.
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var input models.CreateEventInput
	var cover *storage.File

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxCoverSize+maxJSONBytes)
		if err := r.ParseMultipartForm(maxCoverSize); err != nil {
			badRequestResponse(w, r, errors.New("invalid multipart form or file too large"))
			return
		}
		if err := decodeJSON(strings.NewReader(r.FormValue("event")), &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}

		file, header, err := r.FormFile("cover")
		switch {
		case err == nil:
			defer file.Close()
			cover = &storage.File{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Reader:      file,
			}
		case errors.Is(err, http.ErrMissingFile):
		default:
			badRequestResponse(w, r, err)
			return
		}
	} else if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.events.Create(r.Context(), input, cover)
	if err != nil {
		mapErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, jsonResponse{"event": event})
}

func (h *EventHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ratings := h.ratings.List(r.Context(), eventID)
	if !ratings.OK() {
		resultErrorResponse(w, r, ratings.Message)
		return
	}
	average := h.ratings.Average(r.Context(), eventID)

	respond(w, r, http.StatusOK, jsonResponse{
		"ratings":        ratings.Data,
		"average_rating": average.Data,
	})
}

func (h *EventHandler) CreateRating(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input models.RatingInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rating, err := h.ratings.Create(r.Context(), eventID, input)
	if err != nil {
		mapErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"rating": rating})
}

func (h *EventHandler) UpdateRating(w http.ResponseWriter, r *http.Request) {
	ratingID, err := getIDFromURL(r, "ratingID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input models.RatingInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rating, err := h.ratings.Update(r.Context(), ratingID, input)
	if err != nil {
		mapErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"rating": rating})
}

func (h *EventHandler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	ratingID, err := getIDFromURL(r, "ratingID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.ratings.Delete(r.Context(), ratingID); err != nil {
		mapErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resultErrorResponse — ответ для неуспешного models.Result: офлайн → 503, остальное → 502.
func resultErrorResponse(w http.ResponseWriter, r *http.Request, message string) {
	if message == connectivity.OfflineMessage {
		serviceUnavailableResponse(w, r, message)
		return
	}
	errorResponse(w, r, http.StatusBadGateway, message)
}
