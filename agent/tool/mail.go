package tool

import (
	"context"
	"fmt"

	contractx "github.com/calendon/schedpilot/agent/contract"
)

const defaultMaxEmails = 10

// MailSpecs declares the Gmail-backed tools. The gateway is hit lazily per
// invocation so an unauthenticated session degrades to tool errors instead
// of failing at startup.
func MailSpecs(mail contractx.MailGateway) []Spec {
	return []Spec{
		{
			Name: "get_emails",
			Desc: "Get a list of emails from the inbox. Use this to check for emails, find specific emails, or see recent messages.",
			Params: map[string]Param{
				"max_results": {Type: ParamInteger, Desc: "Maximum number of emails to return (default 10)"},
				"query":       {Type: ParamString, Desc: "Gmail search query (e.g., 'is:unread', 'from:someone@example.com', 'subject:meeting')"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				emails, err := mail.ListEmails(ctx, stringArg(args, "query", ""), intArg(args, "max_results", defaultMaxEmails))
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "emails": emails, "count": len(emails)}, nil
			},
		},
		{
			Name: "get_unread_emails",
			Desc: "Get unread emails from the inbox.",
			Params: map[string]Param{
				"max_results": {Type: ParamInteger, Desc: "Maximum number of emails to return (default 10)"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				emails, err := mail.ListEmails(ctx, "is:unread", intArg(args, "max_results", defaultMaxEmails))
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "emails": emails, "count": len(emails)}, nil
			},
		},
		{
			Name: "get_email_details",
			Desc: "Get the full details of a specific email including the body content.",
			Params: map[string]Param{
				"email_id": {Type: ParamString, Desc: "The ID of the email to retrieve", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				email, err := mail.GetEmail(ctx, stringArg(args, "email_id", ""))
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "email": email}, nil
			},
		},
		{
			Name: "send_email",
			Desc: "Send an email to a recipient.",
			Params: map[string]Param{
				"to":      {Type: ParamString, Desc: "Recipient email address", Required: true},
				"subject": {Type: ParamString, Desc: "Email subject line", Required: true},
				"body":    {Type: ParamString, Desc: "Email body content", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				to := stringArg(args, "to", "")
				receipt, err := mail.SendEmail(ctx, contractx.OutgoingEmail{
					To:      to,
					Subject: stringArg(args, "subject", ""),
					Body:    stringArg(args, "body", ""),
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"success": true,
					"id":      receipt.ID,
					"message": fmt.Sprintf("Email sent successfully to %s", to),
				}, nil
			},
		},
		{
			Name: "search_emails",
			Desc: "Search emails using Gmail query syntax.",
			Params: map[string]Param{
				"query":       {Type: ParamString, Desc: "Gmail search query (e.g., 'from:john subject:project')", Required: true},
				"max_results": {Type: ParamInteger, Desc: "Maximum number of results (default 10)"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				emails, err := mail.ListEmails(ctx, stringArg(args, "query", ""), intArg(args, "max_results", defaultMaxEmails))
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "emails": emails, "count": len(emails)}, nil
			},
		},
		{
			Name: "delete_email",
			Desc: "Move an email to trash.",
			Params: map[string]Param{
				"email_id": {Type: ParamString, Desc: "The ID of the email to delete", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				if err := mail.TrashEmail(ctx, stringArg(args, "email_id", "")); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "message": "Email moved to trash"}, nil
			},
		},
		{
			Name: "mark_email_as_read",
			Desc: "Mark an email as read.",
			Params: map[string]Param{
				"email_id": {Type: ParamString, Desc: "The ID of the email to mark as read", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				if err := mail.MarkRead(ctx, stringArg(args, "email_id", "")); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "message": "Email marked as read"}, nil
			},
		},
	}
}
