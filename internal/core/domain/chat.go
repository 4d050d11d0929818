package domain

import "time"

// Role identifies the author of a chat message.
type Role string

// Chat roles.
const (
	// RoleUser is a question typed by the person using the session.
	RoleUser Role = "user"

	// RoleAssistant is a generated answer.
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// ChatMessage is one entry of a session transcript. Transcripts are
// ordered, append-only and process-local; nothing is persisted.
type ChatMessage struct {
	// ID uniquely identifies the message within the session.
	ID string

	// Role is the message author.
	Role Role

	// Content is the message text.
	Content string

	// Trace is the query timeline behind an assistant message.
	// Nil on user messages and on assistant messages produced
	// without trace capture.
	Trace Timeline

	// CreatedAt is when the message was appended.
	CreatedAt time.Time
}
