// Package feedback renders a schedule selection as the launcher's script
// filter JSON.
package feedback

import (
	"encoding/json"
	"fmt"
	"io"

	model "github.com/okian/ocu/internal/domain/model"
	schedule "github.com/okian/ocu/internal/domain/schedule"
)

// Header item texts.
const (
	TitleNoResults  = "No Results"
	TitleNoUpcoming = "No Upcoming Meetings"
	TitleError      = "Could not read today's calendar"

	SubtitleNoResults    = "No meetings for today"
	SubtitleEarlierToday = "Showing events from earlier today"
	SubtitleAllToday     = "Showing all events for today"
)

const invalid = "no"

// Payload is the document written to stdout.
type Payload struct {
	Items []Item `json:"items"`
}

// Item is one row in the launcher list.
type Item struct {
	Title     string     `json:"title"`
	Subtitle  string     `json:"subtitle"`
	Valid     string     `json:"valid,omitempty"`
	Text      *Text      `json:"text,omitempty"`
	Variables *Variables `json:"variables,omitempty"`
}

// Text holds the copy and large-type actions.
type Text struct {
	Copy      string `json:"copy"`
	Largetype string `json:"largetype"`
}

// Variables are exported to the next workflow step.
type Variables struct {
	EventTitle         string `json:"event_title"`
	EventConferenceURL string `json:"event_conference_url"`
}

// Build converts sel into a payload. Times are rendered on the 24-hour clock
// when use24Hour is set.
func Build(sel schedule.Selection, use24Hour bool) Payload {
	items := make([]Item, 0, len(sel.Events)+1)
	if h, ok := headerItem(sel.Header); ok {
		items = append(items, h)
	}
	for _, e := range sel.Events {
		items = append(items, eventItem(e, use24Hour))
	}
	return Payload{Items: items}
}

// ErrorPayload is shown in place of the event list when the run failed.
func ErrorPayload(err error) Payload {
	subtitle := "unknown error"
	if err != nil {
		subtitle = err.Error()
	}
	return Payload{Items: []Item{{Title: TitleError, Subtitle: subtitle, Valid: invalid}}}
}

// Write encodes p to w with two-space indentation.
func Write(w io.Writer, p Payload) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

func headerItem(h schedule.Header) (Item, bool) {
	switch h {
	case schedule.HeaderNoResults:
		return Item{Title: TitleNoResults, Subtitle: SubtitleNoResults, Valid: invalid}, true
	case schedule.HeaderNoUpcomingPast:
		return Item{Title: TitleNoUpcoming, Subtitle: SubtitleEarlierToday, Valid: invalid}, true
	case schedule.HeaderNoUpcomingAll:
		return Item{Title: TitleNoUpcoming, Subtitle: SubtitleAllToday, Valid: invalid}, true
	default:
		return Item{}, false
	}
}

func eventItem(e model.Event, use24Hour bool) Item {
	return Item{
		Title:    e.Title,
		Subtitle: e.TimeOfDay(use24Hour),
		Text: &Text{
			Copy:      e.ConferenceURL,
			Largetype: e.ConferenceURL,
		},
		Variables: &Variables{
			EventTitle:         e.Title,
			EventConferenceURL: e.ConferenceURL,
		},
	}
}
