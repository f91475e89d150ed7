// Package core provides the auto-memory filter pipeline: memory injection
// at the start of a chat turn and automatic persistence at the end of it.
package core

// Message roles as they appear in a chat conversation body.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single conversation message.
type Message struct {
	// Role is one of the Role* constants.
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// User identifies the person the pipeline is acting for, along with their
// per-user preferences. Per-user isolation is the caller's responsibility:
// the ID is threaded through every store call.
type User struct {
	// ID is the user's unique identifier.
	ID string

	// Name is the display name used in narrative summaries.
	Name string

	// Valves are the user's preference settings. Nil means defaults.
	Valves *UserValves
}

// TurnContext carries the inlet's outcome across to the outlet of the same
// chat turn. It replaces hidden cross-call state: the host receives it
// from ProcessInlet and hands it back to ProcessOutlet, so the pairing is
// explicit even when the host interleaves turns.
type TurnContext struct {
	// UserID is the user the inlet ran for.
	UserID string

	// FirstMessage records whether the inlet applied the recency policy.
	FirstMessage bool

	// CurrentInput is the user message the inlet saw last.
	CurrentInput string

	// InjectedCount is how many memories the inlet injected.
	InjectedCount int
}

// IsFirstMessage reports whether a conversation is on its first user turn.
// The current message is already present in the history, so "first" means
// at most one user-role message.
func IsFirstMessage(messages []Message) bool {
	count := 0
	for _, m := range messages {
		if m.Role == RoleUser {
			count++
		}
	}
	return count <= 1
}

// LastUserMessage returns the content of the most recent user message, or
// the empty string when there is none.
func LastUserMessage(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

// LastAssistantMessage returns the content of the most recent assistant
// message, or the empty string when there is none.
func LastAssistantMessage(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleAssistant {
			return messages[i].Content
		}
	}
	return ""
}
