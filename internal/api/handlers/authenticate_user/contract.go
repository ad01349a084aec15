package authenticate_user

import (
	"context"

	"github.com/m04kA/SMC-TrainingBooking/internal/service/users/models"
)

type UserService interface {
	Authenticate(ctx context.Context, telegramID int64) (*models.AuthResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
