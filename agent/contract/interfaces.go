package contract

import (
	"context"
	"time"

	availabilityx "github.com/calendon/schedpilot/agent/availability"
	intervalx "github.com/calendon/schedpilot/agent/interval"
)

// MailGateway is the narrow mail surface consumed by the tool layer.
// Implementations wrap the Gmail API; fakes stand in for tests.
type MailGateway interface {
	ListEmails(ctx context.Context, query string, maxResults int) ([]EmailSummary, error)
	GetEmail(ctx context.Context, emailID string) (*Email, error)
	SendEmail(ctx context.Context, msg OutgoingEmail) (*SendReceipt, error)
	TrashEmail(ctx context.Context, emailID string) error
	MarkRead(ctx context.Context, emailID string) error
	MarkUnread(ctx context.Context, emailID string) error
}

// CalendarGateway is the narrow calendar surface consumed by the tool layer.
type CalendarGateway interface {
	ListUpcoming(ctx context.Context, maxResults int) ([]Event, error)
	ListRange(ctx context.Context, from, to time.Time, maxResults int) ([]Event, error)
	CreateEvent(ctx context.Context, in EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, eventID string, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
	FreeSlots(ctx context.Context, q availabilityx.Query) ([]intervalx.FreeSlot, error)
}
