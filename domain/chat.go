package domain

// Chat message roles as they appear on the wire.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of an assistant conversation. The content may
// carry lightweight markup (bold markers, bullet prefixes). Turns are
// append-only for the lifetime of one chat view and never persisted.
type ChatMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}
