package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"nightlife-server/api"
	"nightlife-server/api/records"
	"nightlife-server/dao/redis"
	"nightlife-server/engine"
	"nightlife-server/models"
	"nightlife-server/models/event"
)

// ErrRefreshInProgress is returned when a refresh is requested while one runs.
var ErrRefreshInProgress = errors.New("refresh already in progress")

// RefreshReport summarizes one refresh run.
type RefreshReport struct {
	RunID         string    `json:"run_id"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Venues        int       `json:"venues"`
	Events        int       `json:"events"`
	SkippedVenues int       `json:"skipped_venues"`
	SkippedEvents int       `json:"skipped_events"`
	FilterDates   int       `json:"filter_dates"`
}

// RecordsRefresherService pulls the data API into the record store.
type RecordsRefresherService struct {
	recordDao  *redis.RedisRecordDAO
	recordsAPI records.RecordsAPI
	maxRetries int
	retryWait  time.Duration

	running sync.Mutex
	cron    *cron.Cron
	now     func() time.Time
}

func NewRecordsRefresherService(
	recordDao *redis.RedisRecordDAO,
	recordsAPI records.RecordsAPI,
	maxRetries int,
	retryWait time.Duration,
) *RecordsRefresherService {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RecordsRefresherService{
		recordDao:  recordDao,
		recordsAPI: recordsAPI,
		maxRetries: maxRetries,
		retryWait:  retryWait,
		now:        time.Now,
	}
}

// StartPeriodicJob schedules RefreshRecords on a standard 5-field cron spec
// (descriptors such as "@every 1h" also work).
func (rr *RecordsRefresherService) StartPeriodicJob(cronSpec string) error {
	c := cron.New()
	if _, err := c.AddFunc(cronSpec, rr.runScheduled); err != nil {
		return fmt.Errorf("bad refresh schedule %q: %w", cronSpec, err)
	}
	rr.cron = c
	c.Start()
	log.Printf("[RecordsRefresherService] Periodic refresh scheduled: %s", cronSpec)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (rr *RecordsRefresherService) Stop() {
	if rr.cron == nil {
		return
	}
	<-rr.cron.Stop().Done()
	log.Println("[RecordsRefresherService] Periodic refresh stopped")
}

func (rr *RecordsRefresherService) runScheduled() {
	log.Println("[RecordsRefresherService] Running periodic records refresher job.")
	report, err := rr.RefreshRecords(context.Background())
	if err != nil {
		log.Printf("[RecordsRefresherService] RefreshRecords returned error: %v", err)
		return
	}
	log.Printf("[RecordsRefresherService] Run %s completed: %d venues, %d events", report.RunID, report.Venues, report.Events)
}

// RefreshRecords fetches filter options, venues and events, normalizes them
// and replaces the stored snapshot. Venues and events are required; filter
// options are best effort. Nothing is stored unless both required fetches
// succeed.
func (rr *RecordsRefresherService) RefreshRecords(ctx context.Context) (*RefreshReport, error) {
	if !rr.running.TryLock() {
		return nil, ErrRefreshInProgress
	}
	defer rr.running.Unlock()

	report := &RefreshReport{RunID: uuid.NewString(), StartedAt: rr.now()}
	log.Printf("[RecordsRefresherService] Starting refresh run %s", report.RunID)

	var filterOptions *models.FilterOptionsResponse
	err := rr.withRetry(ctx, "filter options", func() error {
		var err error
		filterOptions, err = rr.recordsAPI.GetFilterOptions(ctx)
		return err
	})
	if err != nil {
		log.Printf("[RecordsRefresherService] Continuing without filter options: %v", err)
		filterOptions = nil
	}

	var rawVenues, rawEvents []models.RawRecord
	if err := rr.withRetry(ctx, "venues", func() error {
		var err error
		rawVenues, err = rr.recordsAPI.GetVenues(ctx, models.RecordQueryParams{})
		return err
	}); err != nil {
		return nil, fmt.Errorf("fetch venues: %w", err)
	}
	if err := rr.withRetry(ctx, "events", func() error {
		var err error
		rawEvents, err = rr.recordsAPI.GetEvents(ctx, models.RecordQueryParams{})
		return err
	}); err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}

	venues := engine.NormalizeVenues(rawVenues)
	events := keepUsableEvents(engine.NormalizeEvents(rawEvents))
	report.Venues, report.Events = len(venues), len(events)
	report.SkippedVenues = len(rawVenues) - len(venues)
	report.SkippedEvents = len(rawEvents) - len(events)

	// Events go first so a venue failure can put the previous events back.
	previousEvents, err := rr.recordDao.GetEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load previous events: %w", err)
	}
	if err := rr.recordDao.SetEvents(ctx, events); err != nil {
		return nil, fmt.Errorf("store events: %w", err)
	}
	if err := rr.recordDao.ReplaceVenues(ctx, venues); err != nil {
		if restoreErr := rr.recordDao.SetEvents(ctx, previousEvents); restoreErr != nil {
			log.Printf("[RecordsRefresherService] Failed to restore previous events: %v", restoreErr)
		}
		return nil, fmt.Errorf("store venues: %w", err)
	}
	if filterOptions != nil {
		report.FilterDates = len(filterOptions.Dates)
		if err := rr.recordDao.SetFilterOptions(ctx, *filterOptions); err != nil {
			log.Printf("[RecordsRefresherService] Failed to store filter options: %v", err)
		}
	}

	report.FinishedAt = rr.now()
	if err := rr.recordDao.SetLastRefresh(ctx, report.FinishedAt); err != nil {
		log.Printf("[RecordsRefresherService] Failed to store last refresh time: %v", err)
	}

	log.Printf(
		"[RecordsRefresherService] Run %s stored venues=%d events=%d skipped_venues=%d skipped_events=%d",
		report.RunID, report.Venues, report.Events, report.SkippedVenues, report.SkippedEvents,
	)
	return report, nil
}

// withRetry runs fn up to maxRetries+1 times, waiting retryWait*attempt
// between tries. Client errors other than 429 are not retried.
func (rr *RecordsRefresherService) withRetry(ctx context.Context, what string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= rr.maxRetries+1; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !retryable(err) {
			log.Printf("[RecordsRefresherService] Fetching %s failed permanently: %v", what, err)
			return err
		}
		if attempt > rr.maxRetries {
			break
		}

		wait := rr.retryWait * time.Duration(attempt)
		log.Printf("[RecordsRefresherService] Fetching %s failed (attempt %d/%d), retrying in %v: %v",
			what, attempt, rr.maxRetries+1, wait, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("%s: giving up after %d attempts: %w", what, rr.maxRetries+1, err)
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}

// keepUsableEvents drops rows with nothing to identify or show.
func keepUsableEvents(events []event.Event) []event.Event {
	out := make([]event.Event, 0, len(events))
	for _, ev := range events {
		if ev.EventID == "" && ev.VenueID == "" && ev.Name == "" {
			continue
		}
		out = append(out, ev)
	}
	return out
}
