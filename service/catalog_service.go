package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"nightlife-server/dao/redis"
	"nightlife-server/engine"
	"nightlife-server/models"
	"nightlife-server/models/event"
	"nightlife-server/models/venue"
)

// CatalogService answers read queries from the stored snapshot. Nothing is
// cached between calls: each call loads the snapshot and runs the engine.
type CatalogService struct {
	recordDao *redis.RedisRecordDAO
	engine    *engine.Engine
}

func NewCatalogService(recordDao *redis.RedisRecordDAO, eng *engine.Engine) *CatalogService {
	return &CatalogService{
		recordDao: recordDao,
		engine:    eng,
	}
}

func (cs *CatalogService) snapshot(ctx context.Context) ([]venue.Venue, []event.Event, error) {
	venues, err := cs.recordDao.ListVenues(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load venues: %w", err)
	}
	events, err := cs.recordDao.GetEvents(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load events: %w", err)
	}
	return venues, events, nil
}

// Cards runs the full pipeline over the snapshot.
func (cs *CatalogService) Cards(ctx context.Context, fs models.FilterState, policy engine.DedupPolicy, now time.Time) ([]models.Card, error) {
	venues, events, err := cs.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	cards := cs.engine.BuildCards(venues, events, fs, policy, now)
	log.Printf("[CatalogService] Built %d cards from %d events (policy=%s)", len(cards), len(events), policy)
	return cards, nil
}

// VenueCards is Cards restricted to one venue's events.
func (cs *CatalogService) VenueCards(ctx context.Context, venueID string, fs models.FilterState, policy engine.DedupPolicy, now time.Time) ([]models.Card, error) {
	v, err := cs.recordDao.GetVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}
	events, err := cs.recordDao.GetEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	own := engine.GroupEventsByVenue(events)[venueID]
	return cs.engine.BuildCards([]venue.Venue{*v}, own, fs, policy, now), nil
}

func (cs *CatalogService) Venues(ctx context.Context) ([]venue.Venue, error) {
	return cs.recordDao.ListVenues(ctx)
}

// Venue returns redis.ErrVenueNotFound for unknown ids.
func (cs *CatalogService) Venue(ctx context.Context, venueID string) (*venue.Venue, error) {
	return cs.recordDao.GetVenue(ctx, venueID)
}

func (cs *CatalogService) NearbyVenues(ctx context.Context, lat, lng, radiusKm float64) ([]venue.Venue, error) {
	return cs.recordDao.GetNearbyVenues(ctx, lat, lng, radiusKm)
}

// VenueDates lists the days a known venue has events on. A venue with no
// dated events gets an empty list.
func (cs *CatalogService) VenueDates(ctx context.Context, venueID string, now time.Time) ([]models.DateOption, error) {
	if _, err := cs.recordDao.GetVenue(ctx, venueID); err != nil {
		return nil, err
	}
	events, err := cs.recordDao.GetEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	idx := cs.engine.BuildDateIndex(events, now)
	opts, ok := idx.VenueDates(venueID)
	if !ok {
		return []models.DateOption{}, nil
	}
	return opts, nil
}

// GlobalDates lists every day with events, plus the store's own filter dates.
func (cs *CatalogService) GlobalDates(ctx context.Context, now time.Time) ([]models.DateOption, error) {
	events, err := cs.recordDao.GetEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	opts, err := cs.recordDao.GetFilterOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load filter options: %w", err)
	}
	var extra []string
	if opts != nil {
		extra = opts.Dates
	}
	idx := cs.engine.BuildDateIndex(events, now)
	return cs.engine.GlobalDateOptions(idx, now, extra...), nil
}

// FilterOptions returns the stored options, empty before the first refresh.
func (cs *CatalogService) FilterOptions(ctx context.Context) (*models.FilterOptionsResponse, error) {
	opts, err := cs.recordDao.GetFilterOptions(ctx)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		return &models.FilterOptionsResponse{Dates: []string{}}, nil
	}
	return opts, nil
}

// Markers styles every mappable venue with the same predicate Cards uses.
func (cs *CatalogService) Markers(ctx context.Context, fs models.FilterState) ([]models.Marker, error) {
	venues, events, err := cs.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return cs.engine.Markers(venues, events, fs), nil
}

func (cs *CatalogService) LastRefresh(ctx context.Context) (time.Time, error) {
	return cs.recordDao.GetLastRefresh(ctx)
}
