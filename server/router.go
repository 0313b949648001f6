package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

type VenueRoutes interface {
	GetVenues(w http.ResponseWriter, r *http.Request)
	GetVenuesNearby(w http.ResponseWriter, r *http.Request)
	GetVenue(w http.ResponseWriter, r *http.Request)
	GetVenueDates(w http.ResponseWriter, r *http.Request)
}

type CardRoutes interface {
	GetCards(w http.ResponseWriter, r *http.Request)
	GetDates(w http.ResponseWriter, r *http.Request)
	GetFilterOptions(w http.ResponseWriter, r *http.Request)
	GetMarkers(w http.ResponseWriter, r *http.Request)
	GetMapPreview(w http.ResponseWriter, r *http.Request)
}

type StatusRoutes interface {
	Ping(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	venueHandler  VenueRoutes
	cardHandler   CardRoutes
	statusHandler StatusRoutes
	router        *mux.Router
}

// NewRouter creates a router with the app’s routes.
func NewRouter(
	venueHandler VenueRoutes,
	cardHandler CardRoutes,
	statusHandler StatusRoutes,
	router *mux.Router) *Router {
	return &Router{
		venueHandler:  venueHandler,
		cardHandler:   cardHandler,
		statusHandler: statusHandler,
		router:        router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.HandleFunc("/v1/cards", r.cardHandler.GetCards).Methods("GET")
	r.router.HandleFunc("/v1/dates", r.cardHandler.GetDates).Methods("GET")
	r.router.HandleFunc("/v1/filter-options", r.cardHandler.GetFilterOptions).Methods("GET")
	r.router.HandleFunc("/v1/map/markers", r.cardHandler.GetMarkers).Methods("GET")
	r.router.HandleFunc("/v1/map/preview", r.cardHandler.GetMapPreview).Methods("GET")

	r.router.HandleFunc("/v1/venues", r.venueHandler.GetVenues).Methods("GET")
	// expects ?lat={latitude(float)}&lng={longitude(float)}&radius={km(float), optional}
	// registered before {venueId} so "nearby" is not taken for an id
	r.router.HandleFunc("/v1/venues/nearby", r.venueHandler.GetVenuesNearby).Methods("GET")
	r.router.HandleFunc("/v1/venues/{venueId}", r.venueHandler.GetVenue).Methods("GET")
	r.router.HandleFunc("/v1/venues/{venueId}/dates", r.venueHandler.GetVenueDates).Methods("GET")

	r.router.HandleFunc("/v1/status", r.statusHandler.Status).Methods("GET")
	r.router.HandleFunc("/ping", r.statusHandler.Ping).Methods("GET")
}
