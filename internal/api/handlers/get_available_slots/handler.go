package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-TrainingBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-TrainingBooking/internal/usecase/get_available_slots"
)

const (
	msgInvalidTelegramID = "некорректный telegramId"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
	now     func() time.Time
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle GET /api/v1/slots?date=YYYY-MM-DD&telegramId=...
// Без date берется сегодняшний день. Публичный endpoint.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &getAvailableSlots.Request{Date: query.Get("date")}
	if req.Date == "" {
		req.Date = h.now().Format(domain.DateFormat)
	}

	if raw := query.Get("telegramId"); raw != "" {
		telegramID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /slots - Invalid telegramId: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTelegramID)
			return
		}
		req.TelegramID = &telegramID
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrUserNotFound):
			h.logger.Warn("GET /slots - User not found: telegram_id=%d", *req.TelegramID)
			handlers.RespondUnauthorized(w, "")

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /slots - Invalid date: %s", req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /slots - Failed to get available slots: date=%s, error=%v", req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /slots - Available slots retrieved: date=%s, count=%d",
		req.Date, len(result.AvailablePeriods))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
