package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
)

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
}

// SlotRepository интерфейс хранилища слотов
type SlotRepository interface {
	GetByDate(ctx context.Context, date time.Time) ([]*domain.TimeSlot, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*domain.TimeSlot, error)
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
