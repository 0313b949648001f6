package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"nightlife-server/db"
	"nightlife-server/models"
	"nightlife-server/models/event"
	"nightlife-server/models/venue"
)

const VENUES_GEO_KEY_V1 = "venues_geo_v1"
const VENUE_KEY_FORMAT_V1 = "venue_v1:%s"
const EVENTS_KEY_V1 = "events_v1"
const FILTER_OPTIONS_KEY_V1 = "filter_options_v1"
const LAST_REFRESH_KEY_V1 = "last_refresh_v1"

// ErrVenueNotFound is returned by GetVenue for unknown ids.
var ErrVenueNotFound = errors.New("venue not found")

// RedisRecordDAO stores the normalized venue/event snapshot in Redis.
type RedisRecordDAO struct {
	client db.RedisClient
}

func NewRedisRecordDAO(client db.RedisClient) *RedisRecordDAO {
	return &RedisRecordDAO{client: client}
}

func venueKey(venueID string) string {
	return fmt.Sprintf(VENUE_KEY_FORMAT_V1, venueID)
}

// UpsertVenue stores the venue JSON. Venues with coordinates also join the
// geo index.
func (dao *RedisRecordDAO) UpsertVenue(ctx context.Context, v venue.Venue) error {
	key := venueKey(v.VenueID)
	if v.HasCoords {
		return dao.client.AddLocationWithJSON(ctx, VENUES_GEO_KEY_V1, key, v.VenueLat, v.VenueLng, v)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal venue %s: %w", v.VenueID, err)
	}
	if err := dao.client.RemoveLocation(ctx, VENUES_GEO_KEY_V1, key); err != nil {
		return fmt.Errorf("failed to drop venue %s from geo index: %w", v.VenueID, err)
	}
	return dao.client.Set(ctx, key, string(data))
}

// ReplaceVenues makes venues the complete venue set: every venue is upserted
// and stored venues missing from the list are removed.
func (dao *RedisRecordDAO) ReplaceVenues(ctx context.Context, venues []venue.Venue) error {
	existing, err := dao.ListVenueIDs(ctx)
	if err != nil {
		return err
	}

	keep := make(map[string]struct{}, len(venues))
	for _, v := range venues {
		if err := dao.UpsertVenue(ctx, v); err != nil {
			return fmt.Errorf("failed to upsert venue %s: %w", v.VenueID, err)
		}
		keep[v.VenueID] = struct{}{}
	}

	var stale []string
	for _, id := range existing {
		if _, ok := keep[id]; !ok {
			stale = append(stale, venueKey(id))
		}
	}
	if len(stale) == 0 {
		return nil
	}
	if err := dao.client.RemoveLocation(ctx, VENUES_GEO_KEY_V1, stale...); err != nil {
		return fmt.Errorf("failed to remove stale venues from geo index: %w", err)
	}
	if err := dao.client.Del(ctx, stale...); err != nil {
		return fmt.Errorf("failed to delete stale venues: %w", err)
	}
	log.Printf("[RedisRecordDAO] Removed %d stale venues", len(stale))
	return nil
}

func (dao *RedisRecordDAO) GetVenue(ctx context.Context, venueID string) (*venue.Venue, error) {
	str, err := dao.client.Get(ctx, venueKey(venueID))
	if errors.Is(err, db.ErrCacheMiss) {
		return nil, fmt.Errorf("%w: %s", ErrVenueNotFound, venueID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get venue %s from redis: %w", venueID, err)
	}
	var v venue.Venue
	if err := json.Unmarshal([]byte(str), &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal venue JSON: %w", err)
	}
	return &v, nil
}

// ListVenueIDs returns the ids of every stored venue.
func (dao *RedisRecordDAO) ListVenueIDs(ctx context.Context) ([]string, error) {
	keys, err := dao.client.Keys(ctx, venueKey("*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list venue keys: %w", err)
	}
	prefix := venueKey("")
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, prefix))
	}
	sort.Strings(ids)
	return ids, nil
}

// ListVenues returns every stored venue ordered by id.
func (dao *RedisRecordDAO) ListVenues(ctx context.Context) ([]venue.Venue, error) {
	ids, err := dao.ListVenueIDs(ctx)
	if err != nil {
		return nil, err
	}
	venues := make([]venue.Venue, 0, len(ids))
	for _, id := range ids {
		v, err := dao.GetVenue(ctx, id)
		if errors.Is(err, ErrVenueNotFound) {
			// removed between Keys and Get
			continue
		}
		if err != nil {
			return nil, err
		}
		venues = append(venues, *v)
	}
	return venues, nil
}

// GetNearbyVenues returns venues within radiusKm of the point, nearest first.
func (dao *RedisRecordDAO) GetNearbyVenues(ctx context.Context, lat, lng, radiusKm float64) ([]venue.Venue, error) {
	venuesJSON, err := dao.client.GetLocationsWithinRadius(ctx, VENUES_GEO_KEY_V1, lat, lng, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("[RedisRecordDAO] failed to get venues: %w", err)
	}

	venues := make([]venue.Venue, len(venuesJSON))
	for i, venueJSON := range venuesJSON {
		if err := json.Unmarshal([]byte(venueJSON), &venues[i]); err != nil {
			return nil, fmt.Errorf("failed to unmarshal venue JSON: %w", err)
		}
	}
	return venues, nil
}

// SetEvents replaces the event snapshot.
func (dao *RedisRecordDAO) SetEvents(ctx context.Context, events []event.Event) error {
	if events == nil {
		events = []event.Event{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}
	if err := dao.client.Set(ctx, EVENTS_KEY_V1, string(data)); err != nil {
		return fmt.Errorf("failed to set events in redis: %w", err)
	}
	return nil
}

// GetEvents returns the event snapshot, empty before the first refresh.
func (dao *RedisRecordDAO) GetEvents(ctx context.Context) ([]event.Event, error) {
	str, err := dao.client.Get(ctx, EVENTS_KEY_V1)
	if errors.Is(err, db.ErrCacheMiss) {
		return []event.Event{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get events from redis: %w", err)
	}
	var events []event.Event
	if err := json.Unmarshal([]byte(str), &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal events JSON: %w", err)
	}
	return events, nil
}

func (dao *RedisRecordDAO) SetFilterOptions(ctx context.Context, opts models.FilterOptionsResponse) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("failed to marshal filter options: %w", err)
	}
	if err := dao.client.Set(ctx, FILTER_OPTIONS_KEY_V1, string(data)); err != nil {
		return fmt.Errorf("failed to set filter options in redis: %w", err)
	}
	return nil
}

// GetFilterOptions returns nil, nil when nothing has been stored yet.
func (dao *RedisRecordDAO) GetFilterOptions(ctx context.Context) (*models.FilterOptionsResponse, error) {
	str, err := dao.client.Get(ctx, FILTER_OPTIONS_KEY_V1)
	if errors.Is(err, db.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get filter options from redis: %w", err)
	}
	var opts models.FilterOptionsResponse
	if err := json.Unmarshal([]byte(str), &opts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal filter options JSON: %w", err)
	}
	return &opts, nil
}

func (dao *RedisRecordDAO) SetLastRefresh(ctx context.Context, t time.Time) error {
	return dao.client.Set(ctx, LAST_REFRESH_KEY_V1, t.UTC().Format(time.RFC3339))
}

// GetLastRefresh returns the zero time when no refresh has completed.
func (dao *RedisRecordDAO) GetLastRefresh(ctx context.Context) (time.Time, error) {
	str, err := dao.client.Get(ctx, LAST_REFRESH_KEY_V1)
	if errors.Is(err, db.ErrCacheMiss) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last refresh from redis: %w", err)
	}
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad last refresh value %q: %w", str, err)
	}
	return t, nil
}
