package mailer

import (
	"context"
	"fmt"
	"time"

	"moodshare/internal/queue"
)

// queuedMailer publishes mail jobs to the Redis stream instead of delivering
// inline. A mail worker picks them up, so request latency never depends on
// the SMTP server.
type queuedMailer struct {
	pub queue.Publisher
}

// NewQueued returns a Mailer that enqueues delivery on the mail stream.
func NewQueued(pub queue.Publisher) Mailer {
	return &queuedMailer{pub: pub}
}

func (m *queuedMailer) SendPasswordReset(to, username, resetURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := m.pub.Publish(ctx, queue.StreamMail, queue.NewPasswordResetEvent(to, username, resetURL)); err != nil {
		return fmt.Errorf("enqueue password reset: %w", err)
	}
	return nil
}
