package seed_schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
)

// SlotRepository интерфейс хранилища слотов
type SlotRepository interface {
	CreateBatch(ctx context.Context, slots []*domain.TimeSlot) (int, error)
	DeleteUnreferencedBefore(ctx context.Context, date time.Time) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
