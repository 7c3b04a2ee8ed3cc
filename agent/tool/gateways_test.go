package tool

import (
	"context"
	"errors"
	"time"

	availabilityx "github.com/calendon/schedpilot/agent/availability"
	contractx "github.com/calendon/schedpilot/agent/contract"
	intervalx "github.com/calendon/schedpilot/agent/interval"
)

type fakeMail struct {
	emails   []contractx.EmailSummary
	email    *contractx.Email
	receipt  *contractx.SendReceipt
	err      error
	queries  []string
	maxes    []int
	sent     []contractx.OutgoingEmail
	trashed  []string
	markRead []string
}

func (f *fakeMail) ListEmails(ctx context.Context, query string, maxResults int) ([]contractx.EmailSummary, error) {
	f.queries = append(f.queries, query)
	f.maxes = append(f.maxes, maxResults)
	if f.err != nil {
		return nil, f.err
	}
	return f.emails, nil
}

func (f *fakeMail) GetEmail(ctx context.Context, emailID string) (*contractx.Email, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.email == nil {
		return nil, errors.New("Email not found")
	}
	return f.email, nil
}

func (f *fakeMail) SendEmail(ctx context.Context, msg contractx.OutgoingEmail) (*contractx.SendReceipt, error) {
	f.sent = append(f.sent, msg)
	if f.err != nil {
		return nil, f.err
	}
	if f.receipt == nil {
		return &contractx.SendReceipt{ID: "sent-1"}, nil
	}
	return f.receipt, nil
}

func (f *fakeMail) TrashEmail(ctx context.Context, emailID string) error {
	f.trashed = append(f.trashed, emailID)
	return f.err
}

func (f *fakeMail) MarkRead(ctx context.Context, emailID string) error {
	f.markRead = append(f.markRead, emailID)
	return f.err
}

func (f *fakeMail) MarkUnread(ctx context.Context, emailID string) error {
	return f.err
}

type rangeCall struct {
	from, to time.Time
	max      int
}

type fakeCalendar struct {
	events     []contractx.Event
	event      *contractx.Event
	slots      []intervalx.FreeSlot
	err        error
	rangeCalls []rangeCall
	upcoming   []int
	created    []contractx.EventInput
	updated    []contractx.EventPatch
	deleted    []string
	queries    []availabilityx.Query
}

func (f *fakeCalendar) ListUpcoming(ctx context.Context, maxResults int) ([]contractx.Event, error) {
	f.upcoming = append(f.upcoming, maxResults)
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeCalendar) ListRange(ctx context.Context, from, to time.Time, maxResults int) ([]contractx.Event, error) {
	f.rangeCalls = append(f.rangeCalls, rangeCall{from: from, to: to, max: maxResults})
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, in contractx.EventInput) (*contractx.Event, error) {
	f.created = append(f.created, in)
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeCalendar) UpdateEvent(ctx context.Context, eventID string, patch contractx.EventPatch) (*contractx.Event, error) {
	f.updated = append(f.updated, patch)
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeCalendar) DeleteEvent(ctx context.Context, eventID string) error {
	f.deleted = append(f.deleted, eventID)
	return f.err
}

func (f *fakeCalendar) FreeSlots(ctx context.Context, q availabilityx.Query) ([]intervalx.FreeSlot, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.slots, nil
}
