package session

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

const (
	channelPrefix     = "session-events:"
	subscriberBacklog = 8
)

type pubSubClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// RedisNotifier publishes session events on a per-user pub/sub channel so
// every API replica can reach a user's open streams.
type RedisNotifier struct {
	client pubSubClient
}

var _ ports.SessionNotifier = (*RedisNotifier)(nil)

func NewRedisNotifier(client pubSubClient) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) Publish(ctx context.Context, evt domain.SessionEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, channelFor(evt.UserID), payload).Err()
}

// Subscribe returns once Redis has confirmed the subscription. The channel
// is closed when ctx ends or the connection drops.
func (n *RedisNotifier) Subscribe(ctx context.Context, userID string) (<-chan domain.SessionEvent, error) {
	ps := n.client.Subscribe(ctx, channelFor(userID))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	out := make(chan domain.SessionEvent, subscriberBacklog)
	go func() {
		defer close(out)
		defer ps.Close()

		messages := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				evt, err := decodeEvent(msg.Payload)
				if err != nil {
					log.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping malformed session event")
					continue
				}
				select {
				case out <- evt:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func channelFor(userID string) string {
	return channelPrefix + userID
}

func decodeEvent(payload string) (domain.SessionEvent, error) {
	var evt domain.SessionEvent
	err := json.Unmarshal([]byte(payload), &evt)
	return evt, err
}
