package records

import (
	"context"
	"fmt"
	"net/http"

	"nightlife-server/api"
	"nightlife-server/models"
)

const (
	FILTER_OPTIONS_ENDPOINT = "/filter-options"
	VENUES_ENDPOINT         = "/venues"
	EVENTS_ENDPOINT         = "/events"
)

// RecordsApiClient embeds the common HTTPClient
type RecordsApiClient struct {
	*api.HTTPClient
	apiKey string
}

func NewRecordsApiClient(httpClient *api.HTTPClient, apiKey string) *RecordsApiClient {
	return &RecordsApiClient{
		HTTPClient: httpClient,
		apiKey:     apiKey,
	}
}

func (c *RecordsApiClient) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{
		"apikey":        c.apiKey,
		"Authorization": "Bearer " + c.apiKey,
	}
}

func (c *RecordsApiClient) GetFilterOptions(ctx context.Context) (*models.FilterOptionsResponse, error) {
	var response models.FilterOptionsResponse
	if err := c.Request(ctx, http.MethodGet, FILTER_OPTIONS_ENDPOINT, nil, c.headers(), nil, &response); err != nil {
		return nil, fmt.Errorf("get filter options: %w", err)
	}
	return &response, nil
}

func (c *RecordsApiClient) GetVenues(ctx context.Context, params models.RecordQueryParams) ([]models.RawRecord, error) {
	var response []models.RawRecord
	if err := c.Request(ctx, http.MethodGet, VENUES_ENDPOINT, params.ToValues(), c.headers(), nil, &response); err != nil {
		return nil, fmt.Errorf("get venues: %w", err)
	}
	return nonNil(response), nil
}

func (c *RecordsApiClient) GetEvents(ctx context.Context, params models.RecordQueryParams) ([]models.RawRecord, error) {
	var response []models.RawRecord
	if err := c.Request(ctx, http.MethodGet, EVENTS_ENDPOINT, params.ToValues(), c.headers(), nil, &response); err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	return nonNil(response), nil
}

func nonNil(recs []models.RawRecord) []models.RawRecord {
	if recs == nil {
		return []models.RawRecord{}
	}
	return recs
}
