package authenticate_user

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TrainingBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/users"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgAuthenticated      = "Пользователь аутентифицирован"
)

// AuthenticateRequest HTTP request model
type AuthenticateRequest struct {
	TelegramID int64 `json:"telegramId"`
}

// AuthenticateResponse HTTP response model
type AuthenticateResponse struct {
	Message  string `json:"message"`
	UserName string `json:"userName"`
	IsAdmin  bool   `json:"isAdmin"`
}

type Handler struct {
	service UserService
	logger  Logger
}

func NewHandler(service UserService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/authenticate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req AuthenticateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil || req.TelegramID <= 0 {
		h.logger.Warn("POST /authenticate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Authenticate(r.Context(), req.TelegramID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			handlers.RespondUnauthorized(w, "")
			return
		}
		h.logger.Error("POST /authenticate - Failed to authenticate: telegram_id=%d, error=%v", req.TelegramID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, AuthenticateResponse{
		Message:  msgAuthenticated,
		UserName: result.UserName,
		IsAdmin:  result.IsAdmin,
	})
}
