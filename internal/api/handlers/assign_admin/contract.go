package assign_admin

import (
	"context"

	"github.com/m04kA/SMC-TrainingBooking/internal/service/users/models"
)

type UserService interface {
	AssignAdmin(ctx context.Context, callerTelegramID, targetTelegramID int64) (*models.UserResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
