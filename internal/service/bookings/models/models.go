package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

// GetBookingsRequest запрос списка бронирований с необязательными фильтрами
type GetBookingsRequest struct {
	TelegramID *int64  `json:"telegramId,omitempty"`
	Date       *string `json:"date,omitempty"` // YYYY-MM-DD
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{TelegramID: r.TelegramID}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, strings.TrimSpace(*r.Date))
		if err != nil {
			return domain.BookingsFilter{}, fmt.Errorf("date %q, expected YYYY-MM-DD", *r.Date)
		}
		filter.Date = &date
	}

	return filter, nil
}

// SlotResponse слот, связанный с бронированием
type SlotResponse struct {
	ID        int64            `json:"id"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
	Visitors  []int64          `json:"visitors"`
}

// BookingResponse бронирование со слотами
type BookingResponse struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"userId"`
	Date      string           `json:"date"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
	Slots     []SlotResponse   `json:"timeslots"`
	CreatedAt time.Time        `json:"createdAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// FromDomainBooking конвертирует domain.Booking в ответ
func FromDomainBooking(b *domain.Booking) BookingResponse {
	slots := make([]SlotResponse, 0, len(b.Slots))
	for _, s := range b.Slots {
		visitors := s.Visitors
		if visitors == nil {
			visitors = []int64{}
		}
		slots = append(slots, SlotResponse{
			ID:        s.ID,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Visitors:  visitors,
		})
	}

	return BookingResponse{
		ID:        b.ID,
		UserID:    b.UserID,
		Date:      b.Date.Format(domain.DateFormat),
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Slots:     slots,
		CreatedAt: b.CreatedAt,
	}
}

// FromDomainBookingList конвертирует список бронирований
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	list := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		list = append(list, FromDomainBooking(b))
	}
	return &BookingListResponse{Bookings: list, Total: len(list)}
}
