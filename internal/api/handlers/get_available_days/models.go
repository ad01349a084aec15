package get_available_days

import (
	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-TrainingBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

// AvailableDaysResponse HTTP response model
type AvailableDaysResponse struct {
	From string        `json:"from"`
	Days []DayResponse `json:"days"`
}

// DayResponse доступность одного дня
type DayResponse struct {
	Date           string             `json:"date"`
	AvailableSlots int                `json:"availableSlots"`
	TrainingStarts []types.TimeString `json:"trainingStarts"`
}

func FromUseCaseResponse(resp *getAvailableSlots.RangeResponse) *AvailableDaysResponse {
	days := make([]DayResponse, 0, len(resp.Days))
	for _, d := range resp.Days {
		starts := d.TrainingStarts
		if starts == nil {
			starts = []types.TimeString{}
		}
		days = append(days, DayResponse{
			Date:           d.Date.Format(domain.DateFormat),
			AvailableSlots: d.AvailableSlots,
			TrainingStarts: starts,
		})
	}

	return &AvailableDaysResponse{
		From: resp.From.Format(domain.DateFormat),
		Days: days,
	}
}
