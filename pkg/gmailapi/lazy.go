package gmailapi

import (
	"context"
	"fmt"
	"sync"

	contractx "github.com/calendon/schedpilot/agent/contract"
	"github.com/calendon/schedpilot/pkg/googleauth"
)

// LazyClient defers Gmail client construction until the first call, so the
// process can start before the user completes the OAuth flow. Calls made
// while unauthenticated fail with a message the assistant can relay.
type LazyClient struct {
	auth *googleauth.Manager

	mu     sync.Mutex
	client *Client
}

var _ contractx.MailGateway = (*LazyClient)(nil)

func NewLazyClient(auth *googleauth.Manager) *LazyClient {
	return &LazyClient{auth: auth}
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
	client, err := NewClient(ctx, ts)
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

func (l *LazyClient) ListEmails(ctx context.Context, query string, maxResults int) ([]contractx.EmailSummary, error) {
	c, err := l.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return c.ListEmails(ctx, query, maxResults)
}

func (l *LazyClient) GetEmail(ctx context.Context, emailID string) (*contractx.Email, error) {
	c, err := l.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return c.GetEmail(ctx, emailID)
}

func (l *LazyClient) SendEmail(ctx context.Context, msg contractx.OutgoingEmail) (*contractx.SendReceipt, error) {
	c, err := l.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return c.SendEmail(ctx, msg)
}

func (l *LazyClient) TrashEmail(ctx context.Context, emailID string) error {
	c, err := l.ensure(ctx)
	if err != nil {
		return err
	}
	return c.TrashEmail(ctx, emailID)
}

func (l *LazyClient) MarkRead(ctx context.Context, emailID string) error {
	c, err := l.ensure(ctx)
	if err != nil {
		return err
	}
	return c.MarkRead(ctx, emailID)
}

func (l *LazyClient) MarkUnread(ctx context.Context, emailID string) error {
	c, err := l.ensure(ctx)
	if err != nil {
		return err
	}
	return c.MarkUnread(ctx, emailID)
}
