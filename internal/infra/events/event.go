package events

import (
	"time"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
)

// Type тип события бронирования
type Type string

const (
	TypeBookingCreated   Type = "booking.created"
	TypeBookingCancelled Type = "booking.cancelled"
)

// DefaultChannel канал Redis для событий бронирований
const DefaultChannel = "booking-events"

// Event событие бронирования, передается в JSON
type Event struct {
	Type       Type      `json:"type"`
	BookingID  int64     `json:"bookingId"`
	TelegramID int64     `json:"telegramId"`
	Date       string    `json:"date"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewBookingEvent собирает событие из бронирования и telegram ID владельца
func NewBookingEvent(t Type, booking *domain.Booking, telegramID int64, now time.Time) Event {
	return Event{
		Type:       t,
		BookingID:  booking.ID,
		TelegramID: telegramID,
		Date:       booking.Date.Format(domain.DateFormat),
		StartTime:  booking.StartTime.String(),
		EndTime:    booking.EndTime.String(),
		OccurredAt: now.UTC(),
	}
}
