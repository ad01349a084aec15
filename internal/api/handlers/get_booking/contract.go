package get_booking

import (
	"context"

	"github.com/m04kA/SMC-TrainingBooking/internal/service/bookings/models"
)

type BookingService interface {
	GetBooking(ctx context.Context, telegramID, bookingID int64) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
