package contract

import "time"

// ToolInvocation is a single tool call issued by the model. Name must
// resolve in the registry; Args carry the decoded JSON arguments.
type ToolInvocation struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult is the outcome of one invocation. Exactly one of Payload or
// Error is set; either way it serializes to something the model can read
// back as a tool response.
type ToolResult struct {
	Tool    string `json:"tool"`
	Payload any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// EmailSummary is the condensed view of a message returned by list/search.
type EmailSummary struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`
	Subject  string `json:"subject"`
	From     string `json:"from"`
	To       string `json:"to,omitempty"`
	Date     string `json:"date"`
	Snippet  string `json:"snippet"`
	Unread   bool   `json:"unread"`
}

// Email is the full message view, including the decoded body.
type Email struct {
	EmailSummary
	Body   string   `json:"body"`
	Labels []string `json:"labels,omitempty"`
}

// OutgoingEmail is the input for sending mail.
type OutgoingEmail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendReceipt reports a successfully sent message.
type SendReceipt struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`
}

// Event is the formatted view of a calendar event.
type Event struct {
	ID          string     `json:"id"`
	Summary     string     `json:"summary"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	AllDay      bool       `json:"all_day"`
	Attendees   []Attendee `json:"attendees,omitempty"`
	Organizer   string     `json:"organizer,omitempty"`
	Status      string     `json:"status,omitempty"`
	HTMLLink    string     `json:"html_link,omitempty"`
}

// Attendee is one invitee on an event.
type Attendee struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Response string `json:"response,omitempty"`
}

// EventInput is the input for creating an event. End defaults to one hour
// after Start when zero.
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

// EventPatch carries the optional fields of an event update; nil pointers
// leave the stored value untouched.
type EventPatch struct {
	Summary     *string
	Description *string
	Location    *string
	Start       *time.Time
	End         *time.Time
}
