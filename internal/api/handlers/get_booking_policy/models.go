package get_booking_policy

import "github.com/m04kA/SMC-TrainingBooking/internal/domain"

// PolicyResponse правила бронирования для клиентов
type PolicyResponse struct {
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	SlotCapacity        int    `json:"slotCapacity"`
	MinDurationMinutes  int    `json:"minDurationMinutes"`
	MinSlots            int    `json:"minSlots"`
	MinDurationHours    string `json:"minDurationHours"`
}

func FromDomainPolicy(p domain.BookingPolicy) *PolicyResponse {
	return &PolicyResponse{
		SlotDurationMinutes: p.SlotDurationMinutes,
		SlotCapacity:        p.SlotCapacity,
		MinDurationMinutes:  p.MinDurationMinutes,
		MinSlots:            p.MinSlots(),
		MinDurationHours:    p.MinDurationHours(),
	}
}
