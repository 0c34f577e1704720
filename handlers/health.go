package handlers

import (
	"net/http"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/bus"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/connectivity"
)

type HealthHandler struct {
	checker connectivity.Checker
	bus     *bus.Bus
	version string
}

func NewHealthHandler(checker connectivity.Checker, b *bus.Bus, version string) *HealthHandler {
	return &HealthHandler{checker: checker, bus: b, version: version}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, jsonResponse{
		"status":          "available",
		"version":         h.version,
		"backend_online":  h.checker.Reachable(r.Context()),
		"bus_subscribers": h.bus.Subscribers(),
	})
}
