package engine

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"nightlife-server/models"
	"nightlife-server/models/event"
	"nightlife-server/models/venue"
)

// TitlePlaceholder is used when no candidate title is usable.
const TitlePlaceholder = "Event"

const minTitleLength = 4

var singleTimePattern = regexp.MustCompile(`^\d{1,2}:\d{2}\s*[AaPp][Mm]$`)

// NormalizeList turns a list-like field into an ordered list of strings.
// The field may be a JSON array (of strings, numbers or objects), a string
// holding a JSON array, a comma-separated string, a single string or absent.
// Object elements contribute their first key.
func NormalizeList(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []string{}
	}

	switch raw[0] {
	case '[':
		return listFromArray(raw)
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return []string{}
		}
		return NormalizeListString(s)
	case '{':
		if k, ok := firstKey(raw); ok {
			return []string{k}
		}
		return []string{}
	case 'n', 'f':
		// null / false
		return []string{}
	default:
		lit := string(raw)
		if n, err := strconv.ParseFloat(lit, 64); err == nil && n == 0 {
			return []string{}
		}
		return []string{lit}
	}
}

// NormalizeListString is NormalizeList for a value already known to be a string.
func NormalizeListString(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}

	var parsed json.RawMessage
	if err := json.Unmarshal([]byte(s), &parsed); err == nil {
		parsed = bytes.TrimSpace(parsed)
		if len(parsed) > 0 && parsed[0] == '[' {
			return listFromArray(parsed)
		}
		// Double-encoded: normalize the inner string.
		var inner string
		if len(parsed) > 0 && parsed[0] == '"' && json.Unmarshal(parsed, &inner) == nil {
			return NormalizeListString(inner)
		}
	}

	if strings.Contains(s, ",") {
		out := []string{}
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return []string{s}
}

func listFromArray(raw json.RawMessage) []string {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return []string{}
	}

	out := make([]string, 0, len(elems))
	for _, el := range elems {
		el = bytes.TrimSpace(el)
		if len(el) == 0 {
			continue
		}
		switch el[0] {
		case '{':
			if k, ok := firstKey(el); ok {
				out = append(out, k)
			}
		case '"':
			var s string
			if err := json.Unmarshal(el, &s); err == nil {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		case '[':
			out = append(out, listFromArray(el)...)
		case 'n':
			// null elements carry no label
		default:
			out = append(out, string(el))
		}
	}
	return out
}

// firstKey returns the first key of a JSON object in document order.
func firstKey(raw json.RawMessage) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return "", false
	}
	tok, err := dec.Token()
	if err != nil {
		return "", false
	}
	key, ok := tok.(string)
	if !ok || strings.TrimSpace(key) == "" {
		return "", false
	}
	return strings.TrimSpace(key), true
}

// SelectTitle picks the first usable title out of event name, artist and
// venue name, falling back to TitlePlaceholder.
func SelectTitle(eventName, artist, venueName string) string {
	for _, c := range []string{eventName, artist, venueName} {
		c = strings.TrimSpace(c)
		if isUsableTitle(c) {
			return c
		}
	}
	return TitlePlaceholder
}

// isUsableTitle: at least minTitleLength runes, not truncated with an
// ellipsis and at least half letters.
func isUsableTitle(s string) bool {
	runes := []rune(s)
	if len(runes) < minTitleLength {
		return false
	}
	if strings.HasSuffix(s, "...") || strings.HasSuffix(s, "…") {
		return false
	}
	letters := 0
	for _, r := range runes {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters*2 >= len(runes)
}

// ParseTimeRange splits "10:00 PM - 3:00 AM" into start and end. A lone
// "10:00 PM" is a start with no end. Anything else yields two empty strings.
func ParseTimeRange(s string) (start, end string) {
	if before, after, found := strings.Cut(s, " - "); found {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	t := strings.TrimSpace(s)
	if singleTimePattern.MatchString(t) {
		return t, ""
	}
	return "", ""
}

// NormalizeVenue maps a raw venue row onto venue.Venue.
func NormalizeVenue(rec models.RawRecord) venue.Venue {
	v := venue.Venue{
		VenueID:    stringField(rec, "venue_id", "id"),
		VenueName:  stringField(rec, "venue_name", "name"),
		Area:       stringField(rec, "venue_area", "area"),
		Category:   stringField(rec, "venue_category", "category", "venue_type"),
		Phone:      stringField(rec, "venue_phone", "phone"),
		Website:    stringField(rec, "venue_website", "website"),
		Instagram:  stringField(rec, "venue_instagram", "instagram"),
		Address:    stringField(rec, "venue_address", "address"),
		Highlights: listField(rec, "venue_highlights", "highlights"),
		Atmosphere: listField(rec, "venue_atmosphere", "atmosphere"),
	}

	lat, latOK := floatField(rec, "venue_lat", "lat", "latitude")
	lng, lngOK := floatField(rec, "venue_lng", "lng", "lon", "longitude")
	if latOK && lngOK && venue.ValidCoordinates(lat, lng) {
		v.VenueLat, v.VenueLng, v.HasCoords = lat, lng, true
	}
	return v
}

// NormalizeEvent maps a raw event row onto event.Event.
func NormalizeEvent(rec models.RawRecord) event.Event {
	ev := event.Event{
		EventID:       stringField(rec, "event_id", "id"),
		VenueID:       stringField(rec, "venue_id"),
		Name:          stringField(rec, "event_name", "name"),
		Subtitle:      stringField(rec, "event_subtitle", "subtitle"),
		Artist:        stringField(rec, "artist", "artist_name"),
		MusicGenre:    listField(rec, "music_genre", "genre"),
		EventVibe:     listField(rec, "event_vibe", "vibe"),
		AnalysisNotes: stringField(rec, "analysis_notes"),
		EventDate:     stringField(rec, "event_date", "date"),
		EventTime:     stringField(rec, "event_time", "time"),
		EntryPrice:    stringField(rec, "entry_price", "price"),
		Offers:        stringField(rec, "offers", "offer"),
		Categories:    categoryField(rec),
		Attributes:    attributesField(rec),
		VenueName:     stringField(rec, "venue_name"),
		VenueArea:     stringField(rec, "venue_area", "area"),
	}

	ev.StartTime = stringField(rec, "start_time")
	ev.EndTime = stringField(rec, "end_time")
	if ev.StartTime == "" && ev.EndTime == "" {
		ev.StartTime, ev.EndTime = ParseTimeRange(ev.EventTime)
	}

	ev.Title = SelectTitle(ev.Name, ev.Artist, ev.VenueName)
	return ev
}

// NormalizeVenues drops rows without an identifier: nothing could reference them.
func NormalizeVenues(recs []models.RawRecord) []venue.Venue {
	out := make([]venue.Venue, 0, len(recs))
	for _, rec := range recs {
		v := NormalizeVenue(rec)
		if v.VenueID == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

func NormalizeEvents(recs []models.RawRecord) []event.Event {
	out := make([]event.Event, 0, len(recs))
	for _, rec := range recs {
		out = append(out, NormalizeEvent(rec))
	}
	return out
}

func categoryField(rec models.RawRecord) []event.CategoryTag {
	tags := []event.CategoryTag{}

	if raw, ok := rawField(rec, "event_categories", "categories"); ok {
		for _, el := range arrayElements(raw) {
			if tag, ok := categoryTag(el); ok {
				tags = append(tags, tag)
			}
		}
	}
	if len(tags) > 0 {
		return tags
	}

	primary := stringField(rec, "category_primary", "primary_category")
	if primary == "" {
		return tags
	}
	conf, _ := floatField(rec, "category_confidence", "confidence_score", "confidence")
	return append(tags, event.CategoryTag{
		Primary:    primary,
		Secondary:  stringField(rec, "category_secondary", "secondary_category"),
		Confidence: clampConfidence(conf),
	})
}

func categoryTag(el json.RawMessage) (event.CategoryTag, bool) {
	el = bytes.TrimSpace(el)
	if len(el) == 0 {
		return event.CategoryTag{}, false
	}

	if el[0] == '"' {
		var s string
		if err := json.Unmarshal(el, &s); err != nil {
			return event.CategoryTag{}, false
		}
		primary, secondary, _ := strings.Cut(s, ">")
		primary = strings.TrimSpace(primary)
		if primary == "" {
			return event.CategoryTag{}, false
		}
		return event.CategoryTag{Primary: primary, Secondary: strings.TrimSpace(secondary), Confidence: 1}, true
	}

	obj, ok := objectField(el)
	if !ok {
		return event.CategoryTag{}, false
	}
	primary := stringField(obj, "primary", "primary_category")
	if primary == "" {
		return event.CategoryTag{}, false
	}
	conf, _ := floatField(obj, "confidence", "confidence_score")
	return event.CategoryTag{
		Primary:    primary,
		Secondary:  stringField(obj, "secondary", "secondary_category"),
		Confidence: clampConfidence(conf),
	}, true
}

// clampConfidence keeps scores in [0,1]; percentages are scaled down.
func clampConfidence(c float64) float64 {
	if c > 1 && c <= 100 {
		c = c / 100
	}
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func attributesField(rec models.RawRecord) event.Attributes {
	if raw, ok := rawField(rec, "attributes"); ok {
		if obj, ok := objectField(raw); ok {
			return event.Attributes{
				Venue:  listField(obj, "venue", "venue_type"),
				Energy: listField(obj, "energy"),
				Timing: listField(obj, "timing"),
				Status: listField(obj, "status"),
			}
		}
	}
	return event.Attributes{
		Venue:  listField(rec, "attr_venue", "venue_attributes"),
		Energy: listField(rec, "attr_energy", "energy_attributes"),
		Timing: listField(rec, "attr_timing", "timing_attributes"),
		Status: listField(rec, "attr_status", "status_attributes"),
	}
}

// rawField returns the first alias present with a non-null value.
func rawField(rec models.RawRecord, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		raw, ok := rec[k]
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			continue
		}
		return raw, true
	}
	return nil, false
}

// stringField returns the first alias that renders to a non-empty string.
// Numbers and booleans render as their JSON literal.
func stringField(rec models.RawRecord, keys ...string) string {
	for _, k := range keys {
		raw, ok := rawField(rec, k)
		if !ok {
			continue
		}
		var s string
		switch raw[0] {
		case '"':
			if err := json.Unmarshal(raw, &s); err != nil {
				continue
			}
		case '{', '[':
			continue
		default:
			s = string(raw)
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// floatField accepts JSON numbers and numeric strings.
func floatField(rec models.RawRecord, keys ...string) (float64, bool) {
	for _, k := range keys {
		s := stringField(rec, k)
		if s == "" {
			continue
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func listField(rec models.RawRecord, keys ...string) []string {
	raw, ok := rawField(rec, keys...)
	if !ok {
		return []string{}
	}
	return NormalizeList(raw)
}

// objectField decodes an object, or a string holding a JSON object.
func objectField(raw json.RawMessage) (models.RawRecord, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, false
		}
		raw = json.RawMessage(strings.TrimSpace(s))
	}
	var obj models.RawRecord
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// arrayElements decodes an array, or a string holding a JSON array.
func arrayElements(raw json.RawMessage) []json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		raw = json.RawMessage(strings.TrimSpace(s))
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	return elems
}
