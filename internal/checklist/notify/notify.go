// Package notify delivers rendered checklist replies back to the messaging
// provider.
package notify

import "context"

// Notifier sends a text message to a session's chat.
type Notifier interface {
	Send(ctx context.Context, sessionID, text string) error
}

// Func adapts a function to the Notifier interface.
type Func func(ctx context.Context, sessionID, text string) error

func (f Func) Send(ctx context.Context, sessionID, text string) error {
	return f(ctx, sessionID, text)
}
