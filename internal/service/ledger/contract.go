package ledger

import (
	"context"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
)

// BookingRepository хранилище бронирований и связующих строк
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	LinkSlot(ctx context.Context, bookingID, slotID int64) error
	AddVisitor(ctx context.Context, userID, slotID int64, capacity int) error
	GetLinkedSlotIDs(ctx context.Context, bookingID int64) ([]int64, error)
	UnlinkSlots(ctx context.Context, bookingID int64) error
	RemoveVisitor(ctx context.Context, userID int64, slotIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
