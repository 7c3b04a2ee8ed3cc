package calendarapi

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	availabilityx "github.com/calendon/schedpilot/agent/availability"
	contractx "github.com/calendon/schedpilot/agent/contract"
	intervalx "github.com/calendon/schedpilot/agent/interval"
)

const defaultCalendarID = "primary"

// Client implements the calendar gateway over the Google Calendar API.
type Client struct {
	svc        *calendar.Service
	calendarID string
	now        func() time.Time
}

var _ contractx.CalendarGateway = (*Client)(nil)

type Option func(*Client)

func WithCalendarID(id string) Option {
	return func(c *Client) {
		if id != "" {
			c.calendarID = id
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func NewClient(ctx context.Context, ts oauth2.TokenSource, opts ...Option) (*Client, error) {
	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	c := &Client{
		svc:        svc,
		calendarID: defaultCalendarID,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *Client) ListUpcoming(ctx context.Context, maxResults int) ([]contractx.Event, error) {
	now := c.now()
	return c.ListRange(ctx, now, now.AddDate(0, 0, 30), maxResults)
}

// ListRange lists events overlapping [from, to), expanded to single
// instances and ordered by start time.
func (c *Client) ListRange(ctx context.Context, from, to time.Time, maxResults int) ([]contractx.Event, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	res, err := c.svc.Events.List(c.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]contractx.Event, 0, len(res.Items))
	for _, item := range res.Items {
		events = append(events, toEvent(item))
	}
	return events, nil
}

func (c *Client) CreateEvent(ctx context.Context, in contractx.EventInput) (*contractx.Event, error) {
	created, err := c.svc.Events.Insert(c.calendarID, buildEventBody(in)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	ev := toEvent(created)
	return &ev, nil
}

// UpdateEvent verifies the event exists, then patches only the fields the
// caller set. Untouched fields keep their stored values.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, patch contractx.EventPatch) (*contractx.Event, error) {
	if _, err := c.svc.Events.Get(c.calendarID, eventID).Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("get event %s: %w", eventID, err)
	}

	updated, err := c.svc.Events.Patch(c.calendarID, eventID, buildPatchBody(patch)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("patch event %s: %w", eventID, err)
	}
	ev := toEvent(updated)
	return &ev, nil
}

func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	if err := c.svc.Events.Delete(c.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete event %s: %w", eventID, err)
	}
	return nil
}

// FreeSlots lists the busy intervals over the query horizon and runs the
// availability scan against them.
func (c *Client) FreeSlots(ctx context.Context, q availabilityx.Query) ([]intervalx.FreeSlot, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	horizon := q.Now.AddDate(0, 0, q.DaysAhead)
	res, err := c.svc.Events.List(c.calendarID).
		TimeMin(q.Now.Format(time.RFC3339)).
		TimeMax(horizon.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(250).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list busy events: %w", err)
	}

	busy := busyIntervals(res.Items, q.Now.Location())
	return availabilityx.FindFreeSlots(busy, q)
}
