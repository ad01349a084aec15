package notifier

import (
	"context"

	"github.com/m04kA/SMC-TrainingBooking/internal/infra/events"
)

// Subscriber источник событий бронирования
type Subscriber interface {
	Run(ctx context.Context, handler func(ctx context.Context, event events.Event) error) error
}

// MessageSender отправка сообщения в чат пользователя
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
