package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightlife-server/dao/redis"
	"nightlife-server/db"
	"nightlife-server/engine"
	"nightlife-server/models"
	"nightlife-server/models/event"
	"nightlife-server/models/venue"
)

var dubai = time.FixedZone("GST", 4*60*60)

func seededCatalog(t *testing.T) *CatalogService {
	t.Helper()
	ctx := context.Background()
	dao := redis.NewRedisRecordDAO(db.NewMockRedisClient())

	require.NoError(t, dao.ReplaceVenues(ctx, []venue.Venue{
		{VenueID: "1", VenueName: "Club Alpha", Area: "Downtown Dubai", Category: "Nightclub", VenueLat: 25.197, VenueLng: 55.279, HasCoords: true},
		{VenueID: "2", VenueName: "Beach House", Area: "JBR", Category: "Beach Club", VenueLat: 25.078, VenueLng: 55.133, HasCoords: true},
		{VenueID: "3", VenueName: "Quiet Bar", Area: "JBR"},
	}))
	require.NoError(t, dao.SetEvents(ctx, []event.Event{
		{EventID: "a", VenueID: "1", Name: "Glow Party", EventDate: "2025-06-01", EventTime: "10:00 PM"},
		{EventID: "b", VenueID: "1", Name: "glow party ", EventDate: "2025-06-01", EventTime: "10:00 PM", Artist: "DJ X"},
		{EventID: "c", VenueID: "2", Name: "Sunset Beats", EventDate: "2025-06-03"},
	}))
	require.NoError(t, dao.SetFilterOptions(ctx, models.FilterOptionsResponse{Dates: []string{"2025-06-02"}}))

	return NewCatalogService(dao, engine.New(dubai))
}

func TestCatalogService_Cards(t *testing.T) {
	cs := seededCatalog(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, dubai)

	cards, err := cs.Cards(context.Background(), models.FilterState{}, engine.DedupComposite, now)

	require.NoError(t, err)
	if assert.Len(t, cards, 2) {
		assert.Equal(t, "b", cards[0].Event.EventID)
		assert.Equal(t, "c", cards[1].Event.EventID)
	}

	filtered, err := cs.Cards(context.Background(), models.FilterState{Areas: []string{"JBR"}}, engine.DedupComposite, now)
	require.NoError(t, err)
	if assert.Len(t, filtered, 1) {
		assert.Equal(t, "Beach House", filtered[0].Venue.VenueName)
	}
}

func TestCatalogService_VenueCards(t *testing.T) {
	cs := seededCatalog(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, dubai)

	cards, err := cs.VenueCards(context.Background(), "2", models.FilterState{}, engine.DedupComposite, now)
	require.NoError(t, err)
	assert.Len(t, cards, 1)

	_, err = cs.VenueCards(context.Background(), "404", models.FilterState{}, engine.DedupComposite, now)
	assert.ErrorIs(t, err, redis.ErrVenueNotFound)
}

func TestCatalogService_VenueDates(t *testing.T) {
	cs := seededCatalog(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, dubai)

	dates, err := cs.VenueDates(context.Background(), "1", now)
	require.NoError(t, err)
	if assert.Len(t, dates, 1) {
		assert.Equal(t, "2025-06-01", dates[0].DateKey)
		assert.True(t, dates[0].IsToday)
	}

	none, err := cs.VenueDates(context.Background(), "3", now)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = cs.VenueDates(context.Background(), "404", now)
	assert.ErrorIs(t, err, redis.ErrVenueNotFound)
}

func TestCatalogService_GlobalDates(t *testing.T) {
	cs := seededCatalog(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, dubai)

	dates, err := cs.GlobalDates(context.Background(), now)

	require.NoError(t, err)
	if assert.Len(t, dates, 3) {
		assert.Equal(t, "2025-06-01", dates[0].DateKey)
		assert.Equal(t, 2, dates[0].Count)
		assert.Equal(t, "2025-06-02", dates[1].DateKey)
		assert.Equal(t, 0, dates[1].Count)
		assert.Equal(t, "2025-06-03", dates[2].DateKey)
		assert.Equal(t, 1, dates[2].Count)
	}
}

func TestCatalogService_Markers(t *testing.T) {
	cs := seededCatalog(t)

	markers, err := cs.Markers(context.Background(), models.FilterState{Query: "glow"})

	require.NoError(t, err)
	if assert.Len(t, markers, 2) {
		assert.Equal(t, "1", markers[0].VenueID)
		assert.True(t, markers[0].Matches)
		assert.Equal(t, "2", markers[1].VenueID)
		assert.False(t, markers[1].Matches)
	}
}

func TestCatalogService_NearbyVenues(t *testing.T) {
	cs := seededCatalog(t)

	venues, err := cs.NearbyVenues(context.Background(), 25.197, 55.279, 2)

	require.NoError(t, err)
	if assert.Len(t, venues, 1) {
		assert.Equal(t, "Club Alpha", venues[0].VenueName)
	}
}

func TestCatalogService_FilterOptionsEmptyStore(t *testing.T) {
	cs := NewCatalogService(redis.NewRedisRecordDAO(db.NewMockRedisClient()), engine.New(dubai))

	opts, err := cs.FilterOptions(context.Background())

	require.NoError(t, err)
	assert.Empty(t, opts.Dates)
}
