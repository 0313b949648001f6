package engine

import (
	"strings"
	"unicode"

	"nightlife-server/models"
)

// subtitleSlack is how many characters a subtitle may exceed the combined
// venue+event name length and still count as a restatement of them.
const subtitleSlack = 10

const (
	displayDateLayout = "Monday, January 2, 2006"
	datePillLayout    = "Mon, Jan 2"
)

// AssembleCard derives the presentation fields for one listing. A date the
// parser rejects is shown as-is.
func (e *Engine) AssembleCard(l models.Listing) models.Card {
	ev, v := l.Event, l.Venue
	venueName := listingVenueName(l)

	card := models.Card{
		Event:         ev,
		Venue:         v,
		Title:         SelectTitle(ev.Name, ev.Artist, venueName),
		StartTime:     ev.StartTime,
		EndTime:       ev.EndTime,
		SmartSubtitle: SmartSubtitle(ev.Subtitle, venueName, ev.Name),
	}
	if card.StartTime == "" && card.EndTime == "" {
		card.StartTime, card.EndTime = ParseTimeRange(ev.EventTime)
	}
	card.TimeLabel = timeLabel(card.StartTime, card.EndTime)

	if t, ok := e.ParseDate(ev.EventDate); ok {
		local := t.In(e.location)
		card.DateKey = local.Format(DateKeyLayout)
		card.DisplayDate = local.Format(displayDateLayout)
		card.DatePill = local.Format(datePillLayout)
	} else {
		card.DisplayDate = ev.EventDate
		card.DatePill = ev.EventDate
	}
	return card
}

func (e *Engine) AssembleCards(listings []models.Listing) []models.Card {
	out := make([]models.Card, 0, len(listings))
	for _, l := range listings {
		out = append(out, e.AssembleCard(l))
	}
	return out
}

// SmartSubtitle drops a subtitle that only restates the venue and event names.
func SmartSubtitle(subtitle, venueName, eventName string) string {
	subtitle = strings.TrimSpace(subtitle)
	if subtitle == "" {
		return ""
	}
	sub, ven, evn := squash(subtitle), squash(venueName), squash(eventName)
	if ven == "" || evn == "" {
		return subtitle
	}
	if strings.Contains(sub, ven) && strings.Contains(sub, evn) &&
		len(sub) <= len(ven)+len(evn)+subtitleSlack {
		return ""
	}
	return subtitle
}

// squash lower-cases s and keeps only letters and digits.
func squash(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func timeLabel(start, end string) string {
	if start != "" && end != "" {
		return start + " - " + end
	}
	return start
}
