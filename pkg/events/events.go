// Package events defines the notification channel the pipeline pushes
// status updates to.
//
// Emission is fire-and-forget: the pipeline never acts on an emitter's
// return value, and a nil emitter silently drops everything.
package events

import "context"

// TypeStatus is the event type for status notifications.
const TypeStatus = "status"

// Event is a single notification pushed to the host.
type Event struct {
	// Type classifies the event; currently always TypeStatus.
	Type string `json:"type"`

	// Description is the user-visible status text.
	Description string `json:"description"`

	// Done marks the end of a status sequence (e.g. "saving..." followed
	// by "saved" with Done set).
	Done bool `json:"done"`
}

// Emitter is a sink for events. Implementations must be safe for
// concurrent use.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Func adapts a plain function to the Emitter interface.
type Func func(ctx context.Context, event Event) error

// Emit calls the adapted function.
func (f Func) Emit(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Status builds a status event.
func Status(description string, done bool) Event {
	return Event{Type: TypeStatus, Description: description, Done: done}
}

// EmitStatus pushes a status event to the emitter, tolerating a nil
// emitter and discarding errors.
func EmitStatus(ctx context.Context, emitter Emitter, description string, done bool) {
	if emitter == nil {
		return
	}
	_ = emitter.Emit(ctx, Status(description, done))
}
