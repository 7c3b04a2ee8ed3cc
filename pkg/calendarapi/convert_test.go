package calendarapi

import (
	"testing"
	"time"

	calendar "google.golang.org/api/calendar/v3"

	contractx "github.com/calendon/schedpilot/agent/contract"
	intervalx "github.com/calendon/schedpilot/agent/interval"
)

func TestToEvent(t *testing.T) {
	t.Parallel()

	item := &calendar.Event{
		Id:       "e1",
		Summary:  "Design review",
		Location: "Room 2",
		Status:   "confirmed",
		HtmlLink: "https://calendar.google.com/event?eid=e1",
		Start:    &calendar.EventDateTime{DateTime: "2026-03-12T09:00:00Z"},
		End:      &calendar.EventDateTime{DateTime: "2026-03-12T10:00:00Z"},
		Organizer: &calendar.EventOrganizer{
			Email: "host@example.com",
		},
		Attendees: []*calendar.EventAttendee{
			{Email: "ana@example.com", DisplayName: "Ana", ResponseStatus: "accepted"},
			{Email: "room-2@resource.calendar.google.com", Resource: true},
		},
	}

	ev := toEvent(item)
	if ev.ID != "e1" || ev.Summary != "Design review" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if !ev.Start.Equal(time.Date(2026, time.March, 12, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start: %v", ev.Start)
	}
	if ev.AllDay {
		t.Fatal("timed event flagged all-day")
	}
	if ev.Organizer != "host@example.com" {
		t.Fatalf("unexpected organizer: %s", ev.Organizer)
	}
	if len(ev.Attendees) != 1 || ev.Attendees[0].Email != "ana@example.com" {
		t.Fatalf("room resources must be filtered: %+v", ev.Attendees)
	}
}

func TestToEventAllDay(t *testing.T) {
	t.Parallel()

	item := &calendar.Event{
		Id:    "e2",
		Start: &calendar.EventDateTime{Date: "2026-03-13"},
		End:   &calendar.EventDateTime{Date: "2026-03-14"},
	}
	ev := toEvent(item)
	if !ev.AllDay {
		t.Fatal("date-only event must be all-day")
	}
	if !ev.Start.Equal(time.Date(2026, time.March, 13, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start: %v", ev.Start)
	}
}

func TestBusyIntervals(t *testing.T) {
	t.Parallel()

	items := []*calendar.Event{
		{
			Summary: "Standup",
			Start:   &calendar.EventDateTime{DateTime: "2026-03-12T09:00:00Z"},
			End:     &calendar.EventDateTime{DateTime: "2026-03-12T09:15:00Z"},
		},
		{
			Summary: "Offsite",
			Start:   &calendar.EventDateTime{Date: "2026-03-13"},
			End:     &calendar.EventDateTime{Date: "2026-03-14"},
		},
		{
			Summary: "Cancelled sync",
			Status:  "cancelled",
			Start:   &calendar.EventDateTime{DateTime: "2026-03-12T11:00:00Z"},
			End:     &calendar.EventDateTime{DateTime: "2026-03-12T12:00:00Z"},
		},
		{
			Summary: "Broken",
		},
	}

	busy := busyIntervals(items, time.UTC)
	if len(busy) != 2 {
		t.Fatalf("expected 2 busy intervals, got %d", len(busy))
	}
	if busy[0].Source != "Standup" {
		t.Fatalf("unexpected source: %s", busy[0].Source)
	}
	offsite := busy[1]
	if !offsite.Start.Equal(time.Date(2026, time.March, 13, 0, 0, 0, 0, time.UTC)) ||
		!offsite.End.Equal(time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("all-day event must block the whole day: %v - %v", offsite.Start, offsite.End)
	}
}

func TestBusyIntervalsMissingEndDefaultsToOneHour(t *testing.T) {
	t.Parallel()

	items := []*calendar.Event{{
		Summary: "Open ended",
		Start:   &calendar.EventDateTime{DateTime: "2026-03-12T09:00:00Z"},
	}}
	busy := busyIntervals(items, time.UTC)
	if len(busy) != 1 {
		t.Fatalf("expected 1 busy interval, got %d", len(busy))
	}
	if intervalx.Duration(busy[0].TimeInterval) != time.Hour {
		t.Fatalf("unexpected duration: %v", intervalx.Duration(busy[0].TimeInterval))
	}
}

func TestBuildEventBodyDefaultsEnd(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.March, 12, 9, 0, 0, 0, time.UTC)
	body := buildEventBody(contractx.EventInput{
		Summary:   "Standup",
		Start:     start,
		Attendees: []string{"ana@example.com", "bo@example.com"},
	})

	if body.Start.DateTime != "2026-03-12T09:00:00Z" {
		t.Fatalf("unexpected start: %s", body.Start.DateTime)
	}
	if body.End.DateTime != "2026-03-12T10:00:00Z" {
		t.Fatalf("end must default to one hour after start: %s", body.End.DateTime)
	}
	if len(body.Attendees) != 2 || body.Attendees[0].Email != "ana@example.com" {
		t.Fatalf("unexpected attendees: %+v", body.Attendees)
	}
}

func TestBuildPatchBodyOnlySetFields(t *testing.T) {
	t.Parallel()

	loc := "Room 4"
	start := time.Date(2026, time.March, 12, 14, 0, 0, 0, time.UTC)
	body := buildPatchBody(contractx.EventPatch{
		Location: &loc,
		Start:    &start,
	})

	if body.Location != "Room 4" {
		t.Fatalf("unexpected location: %s", body.Location)
	}
	if body.Start == nil || body.Start.DateTime != "2026-03-12T14:00:00Z" {
		t.Fatalf("unexpected start: %+v", body.Start)
	}
	if body.Summary != "" || body.Description != "" || body.End != nil {
		t.Fatal("unset fields must stay zero")
	}
}
