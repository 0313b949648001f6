package handlers

import (
	"log"
	"net/http"
	"time"
)

type StatusHandler struct {
	catalog Catalog
}

func NewStatusHandler(catalog Catalog) *StatusHandler {
	return &StatusHandler{catalog: catalog}
}

// Ping handles GET /ping
func (h *StatusHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
}

// Status handles GET /v1/status
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	last, err := h.catalog.LastRefresh(r.Context())
	if err != nil {
		log.Println("[StatusHandler] Error loading last refresh:", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	resp := map[string]interface{}{"status": "ok", "last_refresh": nil}
	if !last.IsZero() {
		resp["last_refresh"] = last.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}
