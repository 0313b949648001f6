package records

import (
	"context"

	"nightlife-server/models"
)

// RecordsAPI is the upstream data store holding venue and event rows.
type RecordsAPI interface {
	GetFilterOptions(ctx context.Context) (*models.FilterOptionsResponse, error)
	GetVenues(ctx context.Context, params models.RecordQueryParams) ([]models.RawRecord, error)
	GetEvents(ctx context.Context, params models.RecordQueryParams) ([]models.RawRecord, error)
}
