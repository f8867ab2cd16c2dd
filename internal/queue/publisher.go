package queue

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"moodshare/internal/redis"
)

// Publisher defines the interface for publishing events to a stream.
type Publisher interface {
	// Publish adds an event to the stream and returns the message id
	// assigned by Redis.
	Publish(ctx context.Context, stream string, event MailEvent) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
}

// NewPublisher creates a Publisher backed by Redis Streams.
func NewPublisher(client *redis.Client) Publisher {
	return &RedisPublisher{client: client}
}

// Publish adds an event to the stream using XADD with an auto-generated id.
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event MailEvent) (string, error) {
	values, err := event.ToMap()
	if err != nil {
		return "", fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &goredis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	log.Debug().Str("stream", stream).Str("type", event.Type).Str("msg_id", messageID).
		Msg("published mail event")
	return messageID, nil
}

// PublishPasswordReset enqueues a password-reset email.
func (p *RedisPublisher) PublishPasswordReset(ctx context.Context, to, username, resetURL string) (string, error) {
	return p.Publish(ctx, StreamMail, NewPasswordResetEvent(to, username, resetURL))
}
