package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	TelegramID *int64 // пользователь; без него доступность считается только по вместимости
	Date       string // YYYY-MM-DD
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date             time.Time
	AvailablePeriods []Slot             // слоты, куда пользователь может записаться
	TrainingStarts   []types.TimeString // начала окон минимальной длительности
}

// Slot модель временного слота
type Slot struct {
	ID             int64
	StartTime      types.TimeString
	EndTime        types.TimeString
	Visitors       []int64
	AvailableSpots int
	TotalSpots     int
}

// RangeRequest запрос сводки по нескольким дням
type RangeRequest struct {
	TelegramID *int64
	From       string // YYYY-MM-DD; пусто - сегодня
	Days       int    // 0 - значение по умолчанию
}

// RangeResponse сводка доступности по дням, начиная с From
type RangeResponse struct {
	From time.Time
	Days []DayAvailability
}

// DayAvailability доступность одного дня
type DayAvailability struct {
	Date           time.Time
	AvailableSlots int                // слотов, куда пользователь может записаться
	TrainingStarts []types.TimeString // начала окон минимальной длительности
}
