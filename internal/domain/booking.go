package domain

import (
	"time"

	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

// Booking reservation of a contiguous run of slots by one user
type Booking struct {
	ID        int64
	UserID    int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	// Slots linked to the booking, ordered by start time
	Slots []*TimeSlot

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationMinutes requested length of the booking
func (b *Booking) DurationMinutes() int {
	return b.StartTime.MinutesUntil(b.EndTime)
}

// SlotIDs returns identifiers of the linked slots
func (b *Booking) SlotIDs() []int64 {
	ids := make([]int64, 0, len(b.Slots))
	for _, s := range b.Slots {
		ids = append(ids, s.ID)
	}
	return ids
}

// BelongsTo reports whether the booking is owned by the user
func (b *Booking) BelongsTo(userID int64) bool {
	return b.UserID == userID
}

// BookingsFilter фильтр списка бронирований
type BookingsFilter struct {
	TelegramID *int64     // владелец (опционально)
	Date       *time.Time // дата (опционально)
}
