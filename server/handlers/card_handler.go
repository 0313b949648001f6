package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"nightlife-server/dao/redis"
	"nightlife-server/engine"
	"nightlife-server/models"
	"nightlife-server/util"
)

const MAP_PREVIEW_TITLE = "Dubai venues"

// CardHandler serves the filtered views: cards, dates and map markers.
type CardHandler struct {
	catalog Catalog
	now     func() time.Time
}

func NewCardHandler(catalog Catalog, now func() time.Time) *CardHandler {
	if now == nil {
		now = time.Now
	}
	return &CardHandler{catalog: catalog, now: now}
}

// GetCards handles GET /v1/cards. Filter args follow models.ParseFilterState;
// ?dedup picks the policy and ?venue_id narrows to one venue.
func (h *CardHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	policy, err := engine.ParseDedupPolicy(vals.Get(DEDUP_QUERY_ARG))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid argument "+DEDUP_QUERY_ARG)
		return
	}
	fs := models.ParseFilterState(vals)

	var cards []models.Card
	if venueID := vals.Get(VENUE_ID_QUERY_ARG); venueID != "" {
		cards, err = h.catalog.VenueCards(r.Context(), venueID, fs, policy, h.now())
		if errors.Is(err, redis.ErrVenueNotFound) {
			writeError(w, http.StatusNotFound, "venue not found: "+venueID)
			return
		}
	} else {
		cards, err = h.catalog.Cards(r.Context(), fs, policy, h.now())
	}
	if err != nil {
		log.Println("[CardHandler] Error building cards:", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// GetDates handles GET /v1/dates
func (h *CardHandler) GetDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.catalog.GlobalDates(r.Context(), h.now())
	if err != nil {
		log.Println("[CardHandler] Error loading dates:", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

// GetFilterOptions handles GET /v1/filter-options
func (h *CardHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.catalog.FilterOptions(r.Context())
	if err != nil {
		log.Println("[CardHandler] Error loading filter options:", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// GetMarkers handles GET /v1/map/markers
func (h *CardHandler) GetMarkers(w http.ResponseWriter, r *http.Request) {
	markers, err := h.catalog.Markers(r.Context(), models.ParseFilterState(r.URL.Query()))
	if err != nil {
		log.Println("[CardHandler] Error loading markers:", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, markers)
}

// GetMapPreview handles GET /v1/map/preview with an HTML chart of the markers.
func (h *CardHandler) GetMapPreview(w http.ResponseWriter, r *http.Request) {
	markers, err := h.catalog.Markers(r.Context(), models.ParseFilterState(r.URL.Query()))
	if err != nil {
		log.Println("[CardHandler] Error loading markers:", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := util.PlotVenueMarkers(w, MAP_PREVIEW_TITLE, markers); err != nil {
		log.Println("[CardHandler] Error rendering map preview:", err)
	}
}
