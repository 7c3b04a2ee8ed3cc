package gmailapi

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	gmail "google.golang.org/api/gmail/v1"

	contractx "github.com/calendon/schedpilot/agent/contract"
)

func toSummary(msg *gmail.Message) contractx.EmailSummary {
	s := contractx.EmailSummary{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
	}
	if msg.Payload != nil {
		s.Subject = headerValue(msg.Payload.Headers, "Subject")
		s.From = headerValue(msg.Payload.Headers, "From")
		s.To = headerValue(msg.Payload.Headers, "To")
		s.Date = headerValue(msg.Payload.Headers, "Date")
	}
	for _, label := range msg.LabelIds {
		if label == "UNREAD" {
			s.Unread = true
			break
		}
	}
	return s
}

func headerValue(headers []*gmail.MessagePartHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// extractBody walks the MIME tree and returns the decoded text/plain part,
// falling back to text/html, then to whatever body data the root carries.
func extractBody(part *gmail.MessagePart) string {
	if part == nil {
		return ""
	}
	if body := findPart(part, "text/plain"); body != "" {
		return body
	}
	if body := findPart(part, "text/html"); body != "" {
		return body
	}
	if part.Body != nil && part.Body.Data != "" {
		return decodeBody(part.Body.Data)
	}
	return ""
}

func findPart(part *gmail.MessagePart, mimeType string) string {
	if part == nil {
		return ""
	}
	if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
		return decodeBody(part.Body.Data)
	}
	for _, child := range part.Parts {
		if body := findPart(child, mimeType); body != "" {
			return body
		}
	}
	return ""
}

// decodeBody handles Gmail's base64url body encoding, with a standard
// base64 fallback for data produced by other clients.
func decodeBody(data string) string {
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(decoded)
}

// buildRawMessage assembles an RFC 2822 message and encodes it the way the
// Gmail send endpoint expects.
func buildRawMessage(msg contractx.OutgoingEmail) (string, error) {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return "", fmt.Errorf("recipient is required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return "", fmt.Errorf("subject is required")
	}
	if strings.TrimSpace(msg.Body) == "" {
		return "", fmt.Errorf("body is required")
	}

	var b strings.Builder
	b.WriteString("To: ")
	b.WriteString(to)
	b.WriteString("\r\n")
	b.WriteString("Subject: ")
	b.WriteString(mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	return base64.URLEncoding.EncodeToString([]byte(b.String())), nil
}
