package calendarapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	availabilityx "github.com/calendon/schedpilot/agent/availability"
	contractx "github.com/calendon/schedpilot/agent/contract"
	intervalx "github.com/calendon/schedpilot/agent/interval"
	"github.com/calendon/schedpilot/pkg/googleauth"
)

// LazyClient defers Calendar client construction until the first call.
// Calls made before the OAuth flow completes fail with a message the
// assistant can relay.
type LazyClient struct {
	auth *googleauth.Manager
	opts []Option

	mu     sync.Mutex
	client *Client
}

var _ contractx.CalendarGateway = (*LazyClient)(nil)

func NewLazyClient(auth *googleauth.Manager, opts ...Option) *LazyClient {
	return &LazyClient{auth: auth, opts: opts}
}

func (l *LazyClient) ensure(ctx context.Context) (*Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.client != nil {
		return l.client, nil
	}

	ts, err := l.auth.TokenSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("not authenticated, please log in first: %w", err)
	}
	client, err := NewClient(ctx, ts, l.opts...)
	if err != nil {
		return nil, err
	}
	l.client = client
	return client, nil
}

// Invalidate drops the cached client. Called on logout.
func (l *LazyClient) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.client = nil
}

func (l *LazyClient) ListUpcoming(ctx context.Context, maxResults int) ([]contractx.Event, error) {
	c, err := l.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return c.ListUpcoming(ctx, maxResults)
}

func (l *LazyClient) ListRange(ctx context.Context, from, to time.Time, maxResults int) ([]contractx.Event, error) {
	c, err := l.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return c.ListRange(ctx, from, to, maxResults)
}

func (l *LazyClient) CreateEvent(ctx context.Context, in contractx.EventInput) (*contractx.Event, error) {
	c, err := l.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return c.CreateEvent(ctx, in)
}

func (l *LazyClient) UpdateEvent(ctx context.Context, eventID string, patch contractx.EventPatch) (*contractx.Event, error) {
	c, err := l.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return c.UpdateEvent(ctx, eventID, patch)
}

func (l *LazyClient) DeleteEvent(ctx context.Context, eventID string) error {
	c, err := l.ensure(ctx)
	if err != nil {
		return err
	}
	return c.DeleteEvent(ctx, eventID)
}

func (l *LazyClient) FreeSlots(ctx context.Context, q availabilityx.Query) ([]intervalx.FreeSlot, error) {
	c, err := l.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return c.FreeSlots(ctx, q)
}
