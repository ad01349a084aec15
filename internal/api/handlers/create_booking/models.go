package create_booking

import (
	createBooking "github.com/m04kA/SMC-TrainingBooking/internal/usecase/create_booking"
)

const statusSuccess = "success"

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Date      string `json:"date"`      // "2024-06-03"
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "10:30"
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Status    string  `json:"status"`
	Message   string  `json:"message"`
	BookingID int64   `json:"bookingId"`
	SlotIDs   []int64 `json:"slotIds"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Строки разбирает сам use case.
func (r *CreateBookingRequest) ToUseCaseRequest(telegramID int64) *createBooking.Request {
	return &createBooking.Request{
		TelegramID: telegramID,
		Date:       r.Date,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		Status:    statusSuccess,
		Message:   msgBooked,
		BookingID: resp.ID,
		SlotIDs:   resp.SlotIDs,
	}
}
