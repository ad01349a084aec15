package create_booking

import (
	"time"

	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

// Request модель запроса на создание бронирования.
// Дата и время приходят строками и разбираются в usecase.
type Request struct {
	TelegramID int64  // Telegram ID пользователя
	Date       string // YYYY-MM-DD
	StartTime  string // HH:MM[:SS]
	EndTime    string // HH:MM[:SS]
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID        int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	SlotIDs   []int64
	CreatedAt time.Time
}
