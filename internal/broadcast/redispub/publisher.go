// Package redispub publishes broadcast payloads over Redis pub/sub.
package redispub

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/mmynk/meetpoint/internal/broadcast"
)

// Ensure Publisher implements broadcast.Publisher
var _ broadcast.Publisher = (*Publisher)(nil)

// Publisher fans out session views via Redis PUBLISH. Delivery is
// best-effort: Redis pub/sub has no acknowledgement, which matches the
// coordinator's fire-and-forget contract.
type Publisher struct {
	client *redis.Client
}

// New creates a publisher on an existing Redis client.
func New(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish sends the payload to the given channel.
func (p *Publisher) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish to %s failed: %w", channel, err)
	}
	return nil
}
