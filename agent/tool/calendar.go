package tool

import (
	"context"
	"fmt"
	"time"

	availabilityx "github.com/calendon/schedpilot/agent/availability"
	contractx "github.com/calendon/schedpilot/agent/contract"
)

const (
	defaultMaxEvents = 10
	maxTodayEvents   = 50
	maxWeekEvents    = 100
)

// CalendarSpecs declares the Calendar-backed tools. now supplies the anchor
// instant for today/week windows and free-slot queries, threaded in
// explicitly so tests stay deterministic.
func CalendarSpecs(cal contractx.CalendarGateway, now func() time.Time) []Spec {
	if now == nil {
		now = time.Now
	}
	return []Spec{
		{
			Name: "get_calendar_events",
			Desc: "Get upcoming calendar events.",
			Params: map[string]Param{
				"max_results": {Type: ParamInteger, Desc: "Maximum number of events to return (default 10)"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				events, err := cal.ListUpcoming(ctx, intArg(args, "max_results", defaultMaxEvents))
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "events": events, "count": len(events)}, nil
			},
		},
		{
			Name:   "get_today_events",
			Desc:   "Get all calendar events for today.",
			Params: map[string]Param{},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				start, end := dayWindow(now())
				events, err := cal.ListRange(ctx, start, end, maxTodayEvents)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "events": events, "count": len(events)}, nil
			},
		},
		{
			Name:   "get_week_events",
			Desc:   "Get all calendar events for the current week.",
			Params: map[string]Param{},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				start, end := weekWindow(now())
				events, err := cal.ListRange(ctx, start, end, maxWeekEvents)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "events": events, "count": len(events)}, nil
			},
		},
		{
			Name: "create_calendar_event",
			Desc: "Create a new calendar event.",
			Params: map[string]Param{
				"summary":     {Type: ParamString, Desc: "Event title/summary", Required: true},
				"start_time":  {Type: ParamString, Desc: "Event start time in ISO format (e.g., '2026-01-15T14:00:00')", Required: true},
				"end_time":    {Type: ParamString, Desc: "Event end time in ISO format (optional, defaults to 1 hour after start)"},
				"description": {Type: ParamString, Desc: "Event description (optional)"},
				"location":    {Type: ParamString, Desc: "Event location (optional)"},
				"attendees":   {Type: ParamStringArray, Desc: "List of attendee email addresses (optional)"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				start, err := parseISOTime(stringArg(args, "start_time", ""))
				if err != nil {
					return nil, fmt.Errorf("invalid start_time: %v", err)
				}
				in := contractx.EventInput{
					Summary:     stringArg(args, "summary", ""),
					Description: stringArg(args, "description", ""),
					Location:    stringArg(args, "location", ""),
					Start:       start,
					Attendees:   stringSliceArg(args, "attendees"),
				}
				if raw := stringArg(args, "end_time", ""); raw != "" {
					end, err := parseISOTime(raw)
					if err != nil {
						return nil, fmt.Errorf("invalid end_time: %v", err)
					}
					in.End = end
				}
				event, err := cal.CreateEvent(ctx, in)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "event": event, "message": "Event created successfully"}, nil
			},
		},
		{
			Name: "update_calendar_event",
			Desc: "Update an existing calendar event.",
			Params: map[string]Param{
				"event_id":    {Type: ParamString, Desc: "The ID of the event to update", Required: true},
				"summary":     {Type: ParamString, Desc: "New event title (optional)"},
				"start_time":  {Type: ParamString, Desc: "New start time in ISO format (optional)"},
				"end_time":    {Type: ParamString, Desc: "New end time in ISO format (optional)"},
				"description": {Type: ParamString, Desc: "New description (optional)"},
				"location":    {Type: ParamString, Desc: "New location (optional)"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				patch := contractx.EventPatch{}
				if v, ok := args["summary"].(string); ok {
					patch.Summary = &v
				}
				if v, ok := args["description"].(string); ok {
					patch.Description = &v
				}
				if v, ok := args["location"].(string); ok {
					patch.Location = &v
				}
				if raw := stringArg(args, "start_time", ""); raw != "" {
					start, err := parseISOTime(raw)
					if err != nil {
						return nil, fmt.Errorf("invalid start_time: %v", err)
					}
					patch.Start = &start
				}
				if raw := stringArg(args, "end_time", ""); raw != "" {
					end, err := parseISOTime(raw)
					if err != nil {
						return nil, fmt.Errorf("invalid end_time: %v", err)
					}
					patch.End = &end
				}
				event, err := cal.UpdateEvent(ctx, stringArg(args, "event_id", ""), patch)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "event": event, "message": "Event updated successfully"}, nil
			},
		},
		{
			Name: "delete_calendar_event",
			Desc: "Delete a calendar event.",
			Params: map[string]Param{
				"event_id": {Type: ParamString, Desc: "The ID of the event to delete", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				if err := cal.DeleteEvent(ctx, stringArg(args, "event_id", "")); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "message": "Event deleted successfully"}, nil
			},
		},
		{
			Name: "find_free_slots",
			Desc: "Find available free time slots in the calendar for scheduling.",
			Params: map[string]Param{
				"duration_minutes": {Type: ParamInteger, Desc: "Required duration for the meeting in minutes (default 60)"},
				"days_ahead":       {Type: ParamInteger, Desc: "Number of days to look ahead (default 7)"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				q := availabilityx.NewQuery(
					intArg(args, "duration_minutes", availabilityx.DefaultDurationMinutes),
					intArg(args, "days_ahead", availabilityx.DefaultDaysAhead),
					now(),
				)
				slots, err := cal.FreeSlots(ctx, q)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "free_slots": slots, "count": len(slots)}, nil
			},
		},
	}
}

// NewDefaultRegistry registers the full mail and calendar tool set.
func NewDefaultRegistry(mail contractx.MailGateway, cal contractx.CalendarGateway, now func() time.Time) (*Registry, error) {
	r := NewRegistry()
	if err := r.RegisterAll(MailSpecs(mail)...); err != nil {
		return nil, err
	}
	if err := r.RegisterAll(CalendarSpecs(cal, now)...); err != nil {
		return nil, err
	}
	return r, nil
}

// dayWindow returns the [midnight, midnight+24h) window containing t.
func dayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// weekWindow returns the Monday-anchored week containing t.
func weekWindow(t time.Time) (time.Time, time.Time) {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, -daysSinceMonday)
	return monday, monday.AddDate(0, 0, 7)
}

// parseISOTime accepts RFC 3339 as well as the zone-less ISO form the model
// tends to emit.
func parseISOTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("timestamp is empty")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
	}
	return t, nil
}
