package calendarapi

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"

	contractx "github.com/calendon/schedpilot/agent/contract"
	intervalx "github.com/calendon/schedpilot/agent/interval"
)

func toEvent(item *calendar.Event) contractx.Event {
	ev := contractx.Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Location:    item.Location,
		Status:      item.Status,
		HTMLLink:    item.HtmlLink,
	}
	if item.Organizer != nil {
		ev.Organizer = item.Organizer.Email
	}

	ev.Start, ev.AllDay = parseEventTime(item.Start, time.UTC)
	ev.End, _ = parseEventTime(item.End, time.UTC)

	for _, a := range item.Attendees {
		if a.Resource {
			continue
		}
		ev.Attendees = append(ev.Attendees, contractx.Attendee{
			Email:    a.Email,
			Name:     a.DisplayName,
			Response: a.ResponseStatus,
		})
	}
	return ev
}

// parseEventTime reads a calendar timestamp. All-day events carry a bare
// date, which is anchored at midnight in loc.
func parseEventTime(edt *calendar.EventDateTime, loc *time.Location) (time.Time, bool) {
	if edt == nil {
		return time.Time{}, false
	}
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return t, false
	}
	if edt.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", edt.Date, loc)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// busyIntervals converts events into blocking intervals. All-day events
// block their whole day; events without a usable time range are skipped.
func busyIntervals(items []*calendar.Event, loc *time.Location) []intervalx.BusyInterval {
	busy := make([]intervalx.BusyInterval, 0, len(items))
	for _, item := range items {
		if item.Status == "cancelled" {
			continue
		}

		start, allDay := parseEventTime(item.Start, loc)
		end, _ := parseEventTime(item.End, loc)
		if start.IsZero() {
			continue
		}
		if end.IsZero() || !end.After(start) {
			if allDay {
				end = start.AddDate(0, 0, 1)
			} else {
				end = start.Add(time.Hour)
			}
		}

		busy = append(busy, intervalx.BusyInterval{
			TimeInterval: intervalx.TimeInterval{Start: start, End: end},
			Source:       item.Summary,
		})
	}
	return busy
}

func buildEventBody(in contractx.EventInput) *calendar.Event {
	end := in.End
	if end.IsZero() {
		end = in.Start.Add(time.Hour)
	}

	body := &calendar.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Location:    in.Location,
		Start:       &calendar.EventDateTime{DateTime: in.Start.UTC().Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.UTC().Format(time.RFC3339)},
	}
	for _, email := range in.Attendees {
		body.Attendees = append(body.Attendees, &calendar.EventAttendee{Email: email})
	}
	return body
}

func buildPatchBody(patch contractx.EventPatch) *calendar.Event {
	body := &calendar.Event{}
	if patch.Summary != nil {
		body.Summary = *patch.Summary
	}
	if patch.Description != nil {
		body.Description = *patch.Description
	}
	if patch.Location != nil {
		body.Location = *patch.Location
	}
	if patch.Start != nil {
		body.Start = &calendar.EventDateTime{DateTime: patch.Start.UTC().Format(time.RFC3339)}
	}
	if patch.End != nil {
		body.End = &calendar.EventDateTime{DateTime: patch.End.UTC().Format(time.RFC3339)}
	}
	return body
}
