// Package notifier отправляет пользователям сообщения о создании и отмене бронирований.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	"github.com/m04kA/SMC-TrainingBooking/internal/infra/events"
	"github.com/m04kA/SMC-TrainingBooking/internal/integrations/telegram"
	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

const displayDateFormat = "02.01.2006"

type Worker struct {
	subscriber Subscriber
	sender     MessageSender
	logger     Logger
}

func NewWorker(subscriber Subscriber, sender MessageSender, logger Logger) *Worker {
	return &Worker{
		subscriber: subscriber,
		sender:     sender,
		logger:     logger,
	}
}

// Run обрабатывает события, пока не отменен ctx
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("Notifier: started")
	defer w.logger.Info("Notifier: stopped")

	return w.subscriber.Run(ctx, w.Handle)
}

// Handle отправляет сообщение по одному событию.
// Недоступный чат не считается ошибкой: пользователь мог не запускать бота.
func (w *Worker) Handle(ctx context.Context, event events.Event) error {
	text, ok := Render(event)
	if !ok {
		w.logger.Warn("Notifier: unknown event type=%s, booking=%d", event.Type, event.BookingID)
		return nil
	}

	if err := w.sender.SendMessage(ctx, event.TelegramID, text); err != nil {
		if errors.Is(err, telegram.ErrChatNotFound) {
			w.logger.Warn("Notifier: chat unavailable for telegram_id=%d: %v", event.TelegramID, err)
			return nil
		}
		return fmt.Errorf("send %s for booking=%d: %w", event.Type, event.BookingID, err)
	}
	return nil
}

// Render текст сообщения для события
func Render(event events.Event) (string, bool) {
	period := formatPeriod(event)

	switch event.Type {
	case events.TypeBookingCreated:
		return fmt.Sprintf("Бронирование подтверждено: %s. Номер брони %d.", period, event.BookingID), true
	case events.TypeBookingCancelled:
		return fmt.Sprintf("Бронирование %d отменено: %s.", event.BookingID, period), true
	default:
		return "", false
	}
}

// formatPeriod "03.06.2024 с 09:00 до 10:30"; при нераспознанных полях отдает их как есть
func formatPeriod(event events.Event) string {
	date := event.Date
	if d, err := time.Parse(domain.DateFormat, event.Date); err == nil {
		date = d.Format(displayDateFormat)
	}
	return fmt.Sprintf("%s с %s до %s", date, shortTime(event.StartTime), shortTime(event.EndTime))
}

func shortTime(s string) string {
	t, err := types.NewTimeStringFromString(s)
	if err != nil {
		return s
	}
	return t.String()[:5]
}
