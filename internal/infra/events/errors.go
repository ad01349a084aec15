package events

import "errors"

var (
	// ErrEncode возвращается, если событие не удалось сериализовать
	ErrEncode = errors.New("events: failed to encode event")

	// ErrPublish возвращается при ошибке публикации в Redis
	ErrPublish = errors.New("events: failed to publish event")

	// ErrSubscribe возвращается, если не удалось подписаться на канал
	ErrSubscribe = errors.New("events: failed to subscribe")
)
