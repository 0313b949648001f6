package engine

import (
	"encoding/json"
	"testing"
	"time"

	"nightlife-server/models"
	"nightlife-server/models/event"
	"nightlife-server/models/venue"
)

var dubai = time.FixedZone("GST", 4*60*60)

func newTestEngine() *Engine {
	return New(dubai)
}

// rawRecord builds a RawRecord from a JSON object literal.
func rawRecord(t *testing.T, js string) models.RawRecord {
	t.Helper()
	var rec models.RawRecord
	if err := json.Unmarshal([]byte(js), &rec); err != nil {
		t.Fatalf("bad fixture %s: %v", js, err)
	}
	return rec
}

func listing(ev event.Event, v venue.Venue) models.Listing {
	return models.Listing{Event: ev, Venue: v}
}
