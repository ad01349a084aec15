package assign_admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TrainingBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TrainingBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/users"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgForbidden     = "доступ запрещен"
	msgAlreadyAdmin  = "Пользователь уже является админом"
)

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

// Handle PATCH /api/v1/users/{userId}/admin
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /users/{userId}/admin - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "")
		return
	}

	user, err := h.service.AssignAdmin(r.Context(), callerID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrAccessDenied):
			h.logger.Warn("PATCH /users/{userId}/admin - Access denied: caller=%d", callerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, users.ErrUserNotFound):
			h.logger.Warn("PATCH /users/{userId}/admin - Target not found: telegram_id=%d", targetID)
			handlers.RespondUnauthorized(w, "")

		case errors.Is(err, users.ErrUserAlreadyAdmin):
			handlers.RespondBadRequest(w, msgAlreadyAdmin)

		default:
			h.logger.Error("PATCH /users/{userId}/admin - Failed to assign admin: target=%d, error=%v", targetID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /users/{userId}/admin - Admin assigned: target=%d, caller=%d", targetID, callerID)
	handlers.RespondJSON(w, http.StatusOK, user)
}
