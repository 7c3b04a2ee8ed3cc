package tool

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/calendon/schedpilot/agent/contract"
)

func mailRegistry(t *testing.T, mail contractx.MailGateway) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := r.RegisterAll(MailSpecs(mail)...); err != nil {
		t.Fatalf("register mail specs: %v", err)
	}
	return r
}

func TestGetEmailsDefaults(t *testing.T) {
	t.Parallel()

	mail := &fakeMail{emails: []contractx.EmailSummary{{ID: "m1", Subject: "hello"}}}
	r := mailRegistry(t, mail)

	out := r.Dispatch(context.Background(), contractx.ToolInvocation{Name: "get_emails"})
	if out.Error != "" {
		t.Fatalf("unexpected error: %s", out.Error)
	}
	if mail.queries[0] != "" || mail.maxes[0] != 10 {
		t.Fatalf("unexpected gateway call: query=%q max=%d", mail.queries[0], mail.maxes[0])
	}
	payload := out.Payload.(map[string]any)
	if payload["count"] != 1 {
		t.Fatalf("unexpected count: %v", payload["count"])
	}
}

func TestGetUnreadEmailsUsesUnreadQuery(t *testing.T) {
	t.Parallel()

	mail := &fakeMail{}
	r := mailRegistry(t, mail)

	out := r.Dispatch(context.Background(), contractx.ToolInvocation{
		Name: "get_unread_emails",
		Args: map[string]any{"max_results": float64(5)},
	})
	if out.Error != "" {
		t.Fatalf("unexpected error: %s", out.Error)
	}
	if mail.queries[0] != "is:unread" || mail.maxes[0] != 5 {
		t.Fatalf("unexpected gateway call: query=%q max=%d", mail.queries[0], mail.maxes[0])
	}
}

func TestSendEmailRequiresAllFields(t *testing.T) {
	t.Parallel()

	mail := &fakeMail{}
	r := mailRegistry(t, mail)

	out := r.Dispatch(context.Background(), contractx.ToolInvocation{
		Name: "send_email",
		Args: map[string]any{"to": "a@example.com", "subject": "hi"},
	})
	if out.Error != "body is required" {
		t.Fatalf("unexpected error: %q", out.Error)
	}
	if len(mail.sent) != 0 {
		t.Fatal("gateway must not be called on validation failure")
	}

	out = r.Dispatch(context.Background(), contractx.ToolInvocation{
		Name: "send_email",
		Args: map[string]any{"to": "a@example.com", "subject": "hi", "body": "text"},
	})
	if out.Error != "" {
		t.Fatalf("unexpected error: %s", out.Error)
	}
	if len(mail.sent) != 1 || mail.sent[0].To != "a@example.com" {
		t.Fatalf("unexpected send: %+v", mail.sent)
	}
	payload := out.Payload.(map[string]any)
	if payload["message"] != "Email sent successfully to a@example.com" {
		t.Fatalf("unexpected message: %v", payload["message"])
	}
}

func TestGatewayFailureSurfacesAsToolError(t *testing.T) {
	t.Parallel()

	mail := &fakeMail{err: errors.New("Not authenticated. Please login first.")}
	r := mailRegistry(t, mail)

	out := r.Dispatch(context.Background(), contractx.ToolInvocation{Name: "get_emails"})
	if out.Error != "Not authenticated. Please login first." {
		t.Fatalf("unexpected error: %q", out.Error)
	}
}

func TestDeleteAndMarkRead(t *testing.T) {
	t.Parallel()

	mail := &fakeMail{}
	r := mailRegistry(t, mail)

	out := r.Dispatch(context.Background(), contractx.ToolInvocation{
		Name: "delete_email",
		Args: map[string]any{"email_id": "m9"},
	})
	if out.Error != "" {
		t.Fatalf("unexpected error: %s", out.Error)
	}
	if len(mail.trashed) != 1 || mail.trashed[0] != "m9" {
		t.Fatalf("unexpected trash calls: %v", mail.trashed)
	}

	out = r.Dispatch(context.Background(), contractx.ToolInvocation{
		Name: "mark_email_as_read",
		Args: map[string]any{"email_id": "m9"},
	})
	if out.Error != "" {
		t.Fatalf("unexpected error: %s", out.Error)
	}
	if len(mail.markRead) != 1 || mail.markRead[0] != "m9" {
		t.Fatalf("unexpected markRead calls: %v", mail.markRead)
	}
}
