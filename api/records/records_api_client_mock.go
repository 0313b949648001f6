package records

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"nightlife-server/models"
	"nightlife-server/util"
)

const FILTER_OPTIONS_FILE = "filter_options.json"
const VENUES_FILE = "venues.json"
const EVENTS_FILE = "events.json"

// RecordsApiClientMock serves the data API from JSON fixtures on disk.
type RecordsApiClientMock struct {
	resourcesDir string
}

func NewRecordsApiClientMock(resourcesDir string) *RecordsApiClientMock {
	return &RecordsApiClientMock{resourcesDir: resourcesDir}
}

func (c *RecordsApiClientMock) GetFilterOptions(ctx context.Context) (*models.FilterOptionsResponse, error) {
	response, err := util.ReadFilterOptionsFromJSON(filepath.Join(c.resourcesDir, FILTER_OPTIONS_FILE))
	if err != nil {
		log.Printf("[RecordsApiClientMock] Could not read filter options: %v", err)
		return nil, err
	}
	return response, nil
}

func (c *RecordsApiClientMock) GetVenues(ctx context.Context, params models.RecordQueryParams) ([]models.RawRecord, error) {
	return c.read(VENUES_FILE, params)
}

func (c *RecordsApiClientMock) GetEvents(ctx context.Context, params models.RecordQueryParams) ([]models.RawRecord, error) {
	return c.read(EVENTS_FILE, params)
}

// read honours the venue_id filter only; the real API applies the rest.
func (c *RecordsApiClientMock) read(file string, params models.RecordQueryParams) ([]models.RawRecord, error) {
	recs, err := util.ReadRawRecordsFromJSON(filepath.Join(c.resourcesDir, file))
	if err != nil {
		log.Printf("[RecordsApiClientMock] Could not read %s: %v", file, err)
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	if params.VenueID == "" {
		return recs, nil
	}

	out := make([]models.RawRecord, 0, len(recs))
	for _, rec := range recs {
		if scalarString(rec["venue_id"]) == params.VenueID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func scalarString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
