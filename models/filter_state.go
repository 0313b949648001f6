package models

import (
	"net/url"
	"sort"
	"strings"

	"nightlife-server/models/event"
)

// AllAreas is the area selection that lifts the area restriction.
const AllAreas = "All Dubai"

// Query args understood by ParseFilterState / produced by ToValues.
const (
	CATEGORY_QUERY_ARG   = "category"
	VENUE_ATTR_QUERY_ARG = "venue_attr"
	ENERGY_QUERY_ARG     = "energy"
	TIMING_QUERY_ARG     = "timing"
	STATUS_QUERY_ARG     = "status"
	AREA_QUERY_ARG       = "area"
	DATE_QUERY_ARG       = "date"
	SEARCH_QUERY_ARG     = "q"
)

// categorySeparator splits "Primary:Secondary" in the category query arg.
const categorySeparator = ":"

// FilterState is the user's current selection. An empty selection on any
// facet means that facet is unrestricted.
type FilterState struct {
	// Categories maps a selected primary to its selected secondaries.
	// A primary with no secondaries matches on the primary alone.
	Categories map[string][]string `json:"categories,omitempty"`
	Attributes event.Attributes    `json:"attributes"`
	Areas      []string            `json:"areas,omitempty"`
	Dates      []string            `json:"dates,omitempty"`
	Query      string              `json:"q,omitempty"`
}

// SelectCategory activates primary and, when secondary is non-empty, refines it.
// Selecting a secondary always activates its primary.
func (f *FilterState) SelectCategory(primary, secondary string) {
	primary = strings.TrimSpace(primary)
	secondary = strings.TrimSpace(secondary)
	if primary == "" {
		return
	}
	if f.Categories == nil {
		f.Categories = make(map[string][]string)
	}
	secondaries := f.Categories[primary]
	if secondary != "" && !containsFold(secondaries, secondary) {
		secondaries = append(secondaries, secondary)
	}
	if secondaries == nil {
		secondaries = []string{}
	}
	f.Categories[primary] = secondaries
}

// IsEmpty reports whether no facet is restricted.
func (f FilterState) IsEmpty() bool {
	return len(f.Categories) == 0 &&
		len(f.Attributes.Venue) == 0 &&
		len(f.Attributes.Energy) == 0 &&
		len(f.Attributes.Timing) == 0 &&
		len(f.Attributes.Status) == 0 &&
		len(f.Areas) == 0 &&
		len(f.Dates) == 0 &&
		strings.TrimSpace(f.Query) == ""
}

// ParseFilterState builds a FilterState from query args. Repeated args and
// comma-separated values are both accepted.
func ParseFilterState(vals url.Values) FilterState {
	var f FilterState

	for _, c := range splitValues(vals[CATEGORY_QUERY_ARG]) {
		primary, secondary, _ := strings.Cut(c, categorySeparator)
		f.SelectCategory(primary, secondary)
	}

	f.Attributes = event.Attributes{
		Venue:  splitValues(vals[VENUE_ATTR_QUERY_ARG]),
		Energy: splitValues(vals[ENERGY_QUERY_ARG]),
		Timing: splitValues(vals[TIMING_QUERY_ARG]),
		Status: splitValues(vals[STATUS_QUERY_ARG]),
	}
	f.Areas = splitValues(vals[AREA_QUERY_ARG])
	f.Dates = splitValues(vals[DATE_QUERY_ARG])
	f.Query = strings.TrimSpace(vals.Get(SEARCH_QUERY_ARG))

	return f
}

// ToValues is the inverse of ParseFilterState.
func (f FilterState) ToValues() url.Values {
	q := url.Values{}

	primaries := make([]string, 0, len(f.Categories))
	for p := range f.Categories {
		primaries = append(primaries, p)
	}
	sort.Strings(primaries)
	for _, p := range primaries {
		secondaries := f.Categories[p]
		if len(secondaries) == 0 {
			q.Add(CATEGORY_QUERY_ARG, p)
			continue
		}
		for _, s := range secondaries {
			q.Add(CATEGORY_QUERY_ARG, p+categorySeparator+s)
		}
	}

	addAll(q, VENUE_ATTR_QUERY_ARG, f.Attributes.Venue)
	addAll(q, ENERGY_QUERY_ARG, f.Attributes.Energy)
	addAll(q, TIMING_QUERY_ARG, f.Attributes.Timing)
	addAll(q, STATUS_QUERY_ARG, f.Attributes.Status)
	addAll(q, AREA_QUERY_ARG, f.Areas)
	addAll(q, DATE_QUERY_ARG, f.Dates)
	if f.Query != "" {
		q.Set(SEARCH_QUERY_ARG, f.Query)
	}

	return q
}

func splitValues(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func addAll(q url.Values, key string, values []string) {
	for _, v := range values {
		q.Add(key, v)
	}
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
