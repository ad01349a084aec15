package get_available_days

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-TrainingBooking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-TrainingBooking/internal/usecase/get_available_slots"
)

const (
	msgInvalidTelegramID = "некорректный telegramId"
	msgInvalidDays       = "некорректное количество дней"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	useCase GetAvailableDaysUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableDaysUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots/days?from=YYYY-MM-DD&days=7&telegramId=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &getAvailableSlots.RangeRequest{From: query.Get("from")}

	if raw := query.Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /slots/days - Invalid days: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
		req.Days = days
	}

	if raw := query.Get("telegramId"); raw != "" {
		telegramID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /slots/days - Invalid telegramId: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTelegramID)
			return
		}
		req.TelegramID = &telegramID
	}

	result, err := h.useCase.ExecuteRange(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrUserNotFound):
			h.logger.Warn("GET /slots/days - User not found: telegram_id=%d", *req.TelegramID)
			handlers.RespondUnauthorized(w, "")

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailableSlots.ErrInvalidRange):
			handlers.RespondBadRequest(w, msgInvalidDays)

		default:
			h.logger.Error("GET /slots/days - Failed to get availability: from=%s, error=%v", req.From, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /slots/days - Availability retrieved: from=%s, days=%d",
		req.From, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
