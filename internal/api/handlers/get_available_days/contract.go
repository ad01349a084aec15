package get_available_days

import (
	"context"

	getAvailableSlots "github.com/m04kA/SMC-TrainingBooking/internal/usecase/get_available_slots"
)

// GetAvailableDaysUseCase сводка доступности по дням периода
type GetAvailableDaysUseCase interface {
	ExecuteRange(ctx context.Context, req *getAvailableSlots.RangeRequest) (*getAvailableSlots.RangeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
