package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightlife-server/api"
	"nightlife-server/dao/redis"
	"nightlife-server/db"
	"nightlife-server/models"
)

// fakeRecordsAPI returns queued errors before succeeding.
type fakeRecordsAPI struct {
	filterOptions *models.FilterOptionsResponse
	venues        []models.RawRecord
	events        []models.RawRecord

	filterErrs []error
	venueErrs  []error
	eventErrs  []error

	venueCalls int
	eventCalls int
}

func pop(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

func (f *fakeRecordsAPI) GetFilterOptions(ctx context.Context) (*models.FilterOptionsResponse, error) {
	if err := pop(&f.filterErrs); err != nil {
		return nil, err
	}
	return f.filterOptions, nil
}

func (f *fakeRecordsAPI) GetVenues(ctx context.Context, params models.RecordQueryParams) ([]models.RawRecord, error) {
	f.venueCalls++
	if err := pop(&f.venueErrs); err != nil {
		return nil, err
	}
	return f.venues, nil
}

func (f *fakeRecordsAPI) GetEvents(ctx context.Context, params models.RecordQueryParams) ([]models.RawRecord, error) {
	f.eventCalls++
	if err := pop(&f.eventErrs); err != nil {
		return nil, err
	}
	return f.events, nil
}

func raw(t *testing.T, js string) models.RawRecord {
	t.Helper()
	var rec models.RawRecord
	require.NoError(t, json.Unmarshal([]byte(js), &rec))
	return rec
}

func newFakeAPI(t *testing.T) *fakeRecordsAPI {
	return &fakeRecordsAPI{
		filterOptions: &models.FilterOptionsResponse{Dates: []string{"2025-06-01", "2025-06-02"}},
		venues: []models.RawRecord{
			raw(t, `{"venue_id": 1, "venue_name": "Club Alpha", "venue_lat": 25.2, "venue_lng": 55.27}`),
			raw(t, `{"venue_name": "No Id Lounge"}`),
		},
		events: []models.RawRecord{
			raw(t, `{"event_id": "a", "venue_id": 1, "event_name": "Glow Party", "event_date": "2025-06-01"}`),
			raw(t, `{}`),
		},
	}
}

func newTestRefresher(fake *fakeRecordsAPI, maxRetries int) (*RecordsRefresherService, *redis.RedisRecordDAO) {
	dao := redis.NewRedisRecordDAO(db.NewMockRedisClient())
	rr := NewRecordsRefresherService(dao, fake, maxRetries, 0)
	rr.now = func() time.Time { return time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC) }
	return rr, dao
}

func TestRefreshRecords_StoresSnapshot(t *testing.T) {
	ctx := context.Background()
	rr, dao := newTestRefresher(newFakeAPI(t), 0)

	report, err := rr.RefreshRecords(ctx)

	require.NoError(t, err)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 1, report.Venues)
	assert.Equal(t, 1, report.SkippedVenues)
	assert.Equal(t, 1, report.Events)
	assert.Equal(t, 1, report.SkippedEvents)
	assert.Equal(t, 2, report.FilterDates)

	venues, err := dao.ListVenues(ctx)
	require.NoError(t, err)
	if assert.Len(t, venues, 1) {
		assert.Equal(t, "1", venues[0].VenueID)
		assert.True(t, venues[0].HasCoords)
	}

	events, err := dao.GetEvents(ctx)
	require.NoError(t, err)
	if assert.Len(t, events, 1) {
		assert.Equal(t, "Glow Party", events[0].Title)
	}

	opts, err := dao.GetFilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-01", "2025-06-02"}, opts.Dates)

	last, err := dao.GetLastRefresh(ctx)
	require.NoError(t, err)
	assert.True(t, last.Equal(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)))
}

func TestRefreshRecords_RetriesTransientErrors(t *testing.T) {
	fake := newFakeAPI(t)
	fake.venueErrs = []error{
		errors.New("connection reset"),
		&api.StatusError{StatusCode: http.StatusServiceUnavailable, Status: "503 Service Unavailable"},
	}
	rr, _ := newTestRefresher(fake, 2)

	report, err := rr.RefreshRecords(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, fake.venueCalls)
	assert.Equal(t, 1, report.Venues)
}

func TestRefreshRecords_GivesUpAfterMaxRetries(t *testing.T) {
	fake := newFakeAPI(t)
	fake.eventErrs = []error{errors.New("timeout"), errors.New("timeout"), errors.New("timeout")}
	rr, dao := newTestRefresher(fake, 1)

	_, err := rr.RefreshRecords(context.Background())

	require.Error(t, err)
	assert.Equal(t, 2, fake.eventCalls)

	venues, err := dao.ListVenues(context.Background())
	require.NoError(t, err)
	assert.Empty(t, venues, "nothing is stored when a required fetch fails")
}

// failingGeoClient fails venue geo writes once failGeo is set.
type failingGeoClient struct {
	*db.MockRedisClient
	failGeo bool
}

func (c *failingGeoClient) AddLocationWithJSON(ctx context.Context, geoKey, memberKey string, lat, lng float64, data interface{}) error {
	if c.failGeo {
		return errors.New("geoadd failed")
	}
	return c.MockRedisClient.AddLocationWithJSON(ctx, geoKey, memberKey, lat, lng, data)
}

func TestRefreshRecords_VenueStoreFailureKeepsPreviousEvents(t *testing.T) {
	ctx := context.Background()
	client := &failingGeoClient{MockRedisClient: db.NewMockRedisClient()}
	dao := redis.NewRedisRecordDAO(client)
	fake := newFakeAPI(t)
	rr := NewRecordsRefresherService(dao, fake, 0, 0)

	_, err := rr.RefreshRecords(ctx)
	require.NoError(t, err)

	fake.events = []models.RawRecord{
		raw(t, `{"event_id": "b", "venue_id": 1, "event_name": "Foam Night", "event_date": "2025-06-02"}`),
	}
	client.failGeo = true

	_, err = rr.RefreshRecords(ctx)
	require.Error(t, err)

	events, err := dao.GetEvents(ctx)
	require.NoError(t, err)
	if assert.Len(t, events, 1) {
		assert.Equal(t, "Glow Party", events[0].Title)
	}
}

func TestRefreshRecords_ClientErrorNotRetried(t *testing.T) {
	fake := newFakeAPI(t)
	fake.venueErrs = []error{&api.StatusError{StatusCode: http.StatusUnauthorized, Status: "401 Unauthorized"}}
	rr, _ := newTestRefresher(fake, 3)

	_, err := rr.RefreshRecords(context.Background())

	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 1, fake.venueCalls)
}

func TestRefreshRecords_FilterOptionsAreBestEffort(t *testing.T) {
	fake := newFakeAPI(t)
	fake.filterErrs = []error{errors.New("boom")}
	rr, dao := newTestRefresher(fake, 0)

	report, err := rr.RefreshRecords(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, report.FilterDates)
	opts, err := dao.GetFilterOptions(context.Background())
	require.NoError(t, err)
	assert.Nil(t, opts)
}

func TestRefreshRecords_RejectsConcurrentRun(t *testing.T) {
	rr, _ := newTestRefresher(newFakeAPI(t), 0)
	rr.running.Lock()
	defer rr.running.Unlock()

	_, err := rr.RefreshRecords(context.Background())

	assert.ErrorIs(t, err, ErrRefreshInProgress)
}

func TestStartPeriodicJob(t *testing.T) {
	rr, _ := newTestRefresher(newFakeAPI(t), 0)

	assert.Error(t, rr.StartPeriodicJob("every now and then"))

	require.NoError(t, rr.StartPeriodicJob("@every 1h"))
	rr.Stop()
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(errors.New("dial tcp: refused")))
	assert.True(t, retryable(&api.StatusError{StatusCode: http.StatusBadGateway}))
	assert.True(t, retryable(&api.StatusError{StatusCode: http.StatusTooManyRequests}))
	assert.False(t, retryable(&api.StatusError{StatusCode: http.StatusNotFound}))
	assert.False(t, retryable(context.Canceled))
}
