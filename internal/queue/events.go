package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the mail stream.
const (
	EventPasswordReset = "password_reset"
)

// StreamMail is the Redis stream carrying outbound email jobs.
const StreamMail = "stream:mail"

// ConsumerGroupMail is the consumer group name for mail workers.
const ConsumerGroupMail = "mail_workers"

// MailEvent is an outbound email job. Handlers publish these instead of
// talking to SMTP inline, so a slow mail server never blocks a request.
type MailEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`

	To       string `json:"to"`
	Username string `json:"username"`

	// Password reset events
	ResetURL string `json:"reset_url,omitempty"`
}

// NewPasswordResetEvent builds a job that mails the reset link to the user.
func NewPasswordResetEvent(to, username, resetURL string) MailEvent {
	return MailEvent{
		Type:      EventPasswordReset,
		Timestamp: time.Now().Unix(),
		To:        to,
		Username:  username,
		ResetURL:  resetURL,
	}
}

// ToMap converts the event to a map for Redis XADD. Streams store field-value
// pairs, so the event is serialized to JSON in a "data" field.
func (e MailEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseMailEvent parses a MailEvent from Redis stream message values.
func ParseMailEvent(values map[string]interface{}) (MailEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return MailEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event MailEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return MailEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
