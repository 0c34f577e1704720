package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/category"
)

type CategoryHandler struct {
	images *category.Images
}

func NewCategoryHandler(images *category.Images) *CategoryHandler {
	return &CategoryHandler{images: images}
}

type categoryView struct {
	Category string `json:"category"`
	Icon     string `json:"icon"`
	ImageURL string `json:"image_url"`
}

func (h *CategoryHandler) view(name string) categoryView {
	return categoryView{
		Category: name,
		Icon:     category.Icon(name),
		ImageURL: h.images.Fallback(name),
	}
}

// Normalize: GET /categories/normalize?name=...
func (h *CategoryHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	name, ok := r.URL.Query()["name"]
	if !ok {
		badRequestResponse(w, r, errors.New("query parameter 'name' is required"))
		return
	}
	canonical := category.Normalize(strings.Join(name, " "))
	respond(w, r, http.StatusOK, h.view(canonical))
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	names := category.Canonical()
	out := make([]categoryView, 0, len(names))
	for _, n := range names {
		out = append(out, h.view(n))
	}
	respond(w, r, http.StatusOK, jsonResponse{"categories": out})
}
