package gmailapi

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	contractx "github.com/calendon/schedpilot/agent/contract"
)

const defaultListMax = 10

// Client implements the mail gateway over the Gmail API for the
// authenticated user's mailbox.
type Client struct {
	svc *gmail.UsersService
}

var _ contractx.MailGateway = (*Client)(nil)

func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return &Client{svc: svc.Users}, nil
}

// ListEmails returns summaries for messages matching the Gmail search
// query. The list endpoint only returns ids, so each message is fetched in
// full to fill in headers and snippet.
func (c *Client) ListEmails(ctx context.Context, query string, maxResults int) ([]contractx.EmailSummary, error) {
	if maxResults <= 0 {
		maxResults = defaultListMax
	}

	call := c.svc.Messages.List("me").MaxResults(int64(maxResults)).Context(ctx)
	if query != "" {
		call = call.Q(query)
	}
	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	summaries := make([]contractx.EmailSummary, 0, len(res.Messages))
	for _, ref := range res.Messages {
		msg, err := c.svc.Messages.Get("me", ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("get message %s: %w", ref.Id, err)
		}
		summaries = append(summaries, toSummary(msg))
	}
	return summaries, nil
}

func (c *Client) GetEmail(ctx context.Context, emailID string) (*contractx.Email, error) {
	msg, err := c.svc.Messages.Get("me", emailID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get message %s: %w", emailID, err)
	}

	email := &contractx.Email{
		EmailSummary: toSummary(msg),
		Body:         extractBody(msg.Payload),
		Labels:       msg.LabelIds,
	}
	return email, nil
}

func (c *Client) SendEmail(ctx context.Context, msg contractx.OutgoingEmail) (*contractx.SendReceipt, error) {
	raw, err := buildRawMessage(msg)
	if err != nil {
		return nil, err
	}

	sent, err := c.svc.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &contractx.SendReceipt{ID: sent.Id, ThreadID: sent.ThreadId}, nil
}

func (c *Client) TrashEmail(ctx context.Context, emailID string) error {
	if _, err := c.svc.Messages.Trash("me", emailID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("trash message %s: %w", emailID, err)
	}
	return nil
}

func (c *Client) MarkRead(ctx context.Context, emailID string) error {
	return c.modifyLabels(ctx, emailID, nil, []string{"UNREAD"})
}

func (c *Client) MarkUnread(ctx context.Context, emailID string) error {
	return c.modifyLabels(ctx, emailID, []string{"UNREAD"}, nil)
}

func (c *Client) modifyLabels(ctx context.Context, emailID string, add, remove []string) error {
	req := &gmail.ModifyMessageRequest{
		AddLabelIds:    add,
		RemoveLabelIds: remove,
	}
	if _, err := c.svc.Messages.Modify("me", emailID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("modify message %s: %w", emailID, err)
	}
	return nil
}
