package register_user

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TrainingBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/users"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/users/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgAlreadyExists      = "User with this Telegram ID already exists."
	msgRegistered         = "User successfully registered"
)

// RegisterResponse HTTP response model
type RegisterResponse struct {
	Message string               `json:"message"`
	User    *models.UserResponse `json:"user"`
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

// Handle POST /api/v1/register
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /register - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUserAlreadyExists):
			h.logger.Warn("POST /register - Already registered: telegram_id=%d", req.TelegramID)
			handlers.RespondBadRequest(w, msgAlreadyExists)

		case errors.Is(err, users.ErrInvalidInput):
			h.logger.Warn("POST /register - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /register - Failed to register: telegram_id=%d, error=%v", req.TelegramID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /register - User registered: id=%d, telegram_id=%d", user.ID, user.TelegramID)
	handlers.RespondJSON(w, http.StatusCreated, RegisterResponse{Message: msgRegistered, User: user})
}
