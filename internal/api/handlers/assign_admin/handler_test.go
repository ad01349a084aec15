package assign_admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-TrainingBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/users"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/users/models"
)

type stubService struct {
	caller, target int64
	err            error
}

func (s *stubService) AssignAdmin(_ context.Context, caller, target int64) (*models.UserResponse, error) {
	s.caller, s.target = caller, target
	if s.err != nil {
		return nil, s.err
	}
	return &models.UserResponse{TelegramID: target, IsAdmin: true}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "ok", wantStatus: http.StatusOK},
		{name: "caller not admin", err: users.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "target unknown", err: users.ErrUserNotFound, wantStatus: http.StatusUnauthorized},
		{name: "already admin", err: users.ErrUserAlreadyAdmin, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{err: tt.err}
			r := mux.NewRouter()
			r.Use(middleware.Auth(""))
			r.HandleFunc("/users/{userId}/admin", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodPatch)

			req := httptest.NewRequest(http.MethodPatch, "/users/77/admin", nil)
			req.Header.Set(middleware.HeaderUserID, "42")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, int64(42), svc.caller)
			assert.Equal(t, int64(77), svc.target)
		})
	}
}
