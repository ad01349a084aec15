package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher публикует события в канал Redis
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("%w: channel=%s: %v", ErrPublish, p.channel, err)
	}
	return nil
}

// RedisSubscriber читает события из канала Redis
type RedisSubscriber struct {
	client  redis.UniversalClient
	channel string
	logger  Logger
}

func NewRedisSubscriber(client redis.UniversalClient, channel string, logger Logger) *RedisSubscriber {
	return &RedisSubscriber{client: client, channel: channel, logger: logger}
}

// Run передает события в handler, пока не отменен ctx.
// Нераспознанные сообщения и ошибки handler логируются и пропускаются.
func (s *RedisSubscriber) Run(ctx context.Context, handler func(ctx context.Context, event Event) error) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	// Receive дожидается подтверждения подписки
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("%w: channel=%s: %v", ErrSubscribe, s.channel, err)
	}
	s.logger.Info("RedisSubscriber: subscribed to channel=%s", s.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			event, err := Decode([]byte(msg.Payload))
			if err != nil {
				s.logger.Warn("RedisSubscriber: skip message on channel=%s: %v", s.channel, err)
				continue
			}
			if err := handler(ctx, event); err != nil {
				s.logger.Error("RedisSubscriber: handle event type=%s, booking=%d: %v", event.Type, event.BookingID, err)
			}
		}
	}
}

// Decode разбирает событие из JSON
func Decode(payload []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, fmt.Errorf("%w: decode: %v", ErrEncode, err)
	}
	if event.Type == "" {
		return Event{}, fmt.Errorf("%w: empty event type", ErrEncode)
	}
	return event, nil
}
