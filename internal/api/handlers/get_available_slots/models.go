package get_available_slots

import (
	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-TrainingBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date             string             `json:"date"`
	AvailablePeriods []SlotResponse     `json:"availablePeriods"`
	TrainingStarts   []types.TimeString `json:"trainingStarts"`
}

// SlotResponse открытый слот
type SlotResponse struct {
	ID             int64            `json:"id"`
	StartTime      types.TimeString `json:"startTime"`
	EndTime        types.TimeString `json:"endTime"`
	Visitors       []int64          `json:"visitors"`
	AvailableSpots int              `json:"availableSpots"`
	TotalSpots     int              `json:"totalSpots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	periods := make([]SlotResponse, 0, len(resp.AvailablePeriods))
	for _, s := range resp.AvailablePeriods {
		visitors := s.Visitors
		if visitors == nil {
			visitors = []int64{}
		}
		periods = append(periods, SlotResponse{
			ID:             s.ID,
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			Visitors:       visitors,
			AvailableSpots: s.AvailableSpots,
			TotalSpots:     s.TotalSpots,
		})
	}

	starts := resp.TrainingStarts
	if starts == nil {
		starts = []types.TimeString{}
	}

	return &AvailableSlotsResponse{
		Date:             resp.Date.Format(domain.DateFormat),
		AvailablePeriods: periods,
		TrainingStarts:   starts,
	}
}
