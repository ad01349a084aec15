package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TrainingBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TrainingBooking/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-TrainingBooking/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBookingRejected    = "Ошибка при создании брони, "
	msgSaveFailed         = "Не удалось сохранить бронирование"
	msgBooked             = "Слоты успешно забронированы."
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	telegramID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, "")
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(telegramID))
	if err != nil {
		var reqErr *createBooking.RequestError
		switch {
		case errors.Is(err, createBooking.ErrUserNotFound):
			h.logger.Warn("POST /bookings - User not found: telegram_id=%d", telegramID)
			handlers.RespondUnauthorized(w, "")

		case errors.As(err, &reqErr):
			// причина отказа показывается пользователю как есть
			h.logger.Warn("POST /bookings - Booking rejected: telegram_id=%d, reason=%v", telegramID, reqErr.Reason)
			handlers.RespondBadRequest(w, msgBookingRejected+reqErr.Reason.Error())

		case errors.Is(err, createBooking.ErrSaveFailed):
			h.logger.Error("POST /bookings - Failed to save booking: telegram_id=%d, error=%v", telegramID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgSaveFailed)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: telegram_id=%d, error=%v", telegramID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, telegram_id=%d",
		result.ID, telegramID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
