package worker

import (
	"context"
	"fmt"

	"moodshare/internal/mailer"
	"moodshare/internal/queue"
)

// Handler dispatches mail events to the mailer.
type Handler struct {
	mail mailer.Mailer
}

// NewHandler creates a handler that delivers via the given mailer.
func NewHandler(mail mailer.Mailer) *Handler {
	return &Handler{mail: mail}
}

// HandleEvent delivers one mail event. Unknown event types are an error so
// they surface in logs instead of vanishing.
func (h *Handler) HandleEvent(ctx context.Context, event queue.MailEvent) error {
	switch event.Type {
	case queue.EventPasswordReset:
		return h.handlePasswordReset(ctx, event)
	default:
		return fmt.Errorf("unknown event type: %s", event.Type)
	}
}

func (h *Handler) handlePasswordReset(_ context.Context, event queue.MailEvent) error {
	if event.To == "" || event.ResetURL == "" {
		return fmt.Errorf("password reset event missing to/reset_url")
	}
	if err := h.mail.SendPasswordReset(event.To, event.Username, event.ResetURL); err != nil {
		return fmt.Errorf("send password reset to %s: %w", event.To, err)
	}
	return nil
}
