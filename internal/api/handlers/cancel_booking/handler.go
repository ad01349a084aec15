package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TrainingBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TrainingBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "Выбранная бронь не принадлежит пользователю, либо не существует"
	msgDeleted          = "Booking deleted successfully"
)

// CancelBookingResponse подтверждение удаления
type CancelBookingResponse struct {
	Detail string `json:"detail"`
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("DELETE /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	telegramID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, "")
		return
	}

	err = h.service.Cancel(r.Context(), telegramID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrUserNotFound):
			h.logger.Warn("DELETE /bookings/{id} - User not found: telegram_id=%d", telegramID)
			handlers.RespondUnauthorized(w, "")

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("DELETE /bookings/{id} - Booking not found: booking_id=%d, telegram_id=%d",
				bookingID, telegramID)
			handlers.RespondBadRequest(w, msgNotFound)

		default:
			h.logger.Error("DELETE /bookings/{id} - Failed to cancel booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /bookings/{id} - Booking cancelled successfully: booking_id=%d, telegram_id=%d",
		bookingID, telegramID)
	handlers.RespondJSON(w, http.StatusOK, CancelBookingResponse{Detail: msgDeleted})
}
