package pubsub

import (
	"context"

	"github.com/go-redis/redis/v8"

	"property-feed/internal/model"
	"property-feed/pkg/utils"
)

// RedisPublisher emits payloads on category channels. Fire-and-forget:
// it never waits for subscriber acknowledgment.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish sends payload on channel.
func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.rdb.Publish(ctx, channel, payload).Err()
}

// Sink receives relayed messages; implemented by the WebSocket hub.
type Sink interface {
	Broadcast(payload []byte)
}

// Relay subscribes to every category channel and forwards each message
// to the sink. Messages are processed sequentially as received, so order
// within a single channel is preserved.
type Relay struct {
	rdb  *redis.Client
	sink Sink
	log  *utils.Logger
}

func NewRelay(rdb *redis.Client, sink Sink, log *utils.Logger) *Relay {
	return &Relay{rdb: rdb, sink: sink, log: log}
}

// Run subscribes and relays until ctx is cancelled. The error return
// covers subscription establishment only; the caller treats it as fatal
// at startup.
func (r *Relay) Run(ctx context.Context) error {
	channels := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		channels = append(channels, c.Channel())
	}

	sub := r.rdb.Subscribe(ctx, channels...)
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	r.log.Info("subscribed to channels: %v", channels)

	msgs := sub.Channel()
	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				r.sink.Broadcast([]byte(msg.Payload))
			}
		}
	}()
	return nil
}
