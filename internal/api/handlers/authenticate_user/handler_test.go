package authenticate_user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-TrainingBooking/internal/service/users"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/users/models"
)

type stubService struct {
	resp *models.AuthResponse
	err  error
}

func (s *stubService) Authenticate(context.Context, int64) (*models.AuthResponse, error) {
	return s.resp, s.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func post(svc UserService, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec,
		httptest.NewRequest(http.MethodPost, "/api/v1/authenticate", strings.NewReader(body)))
	return rec
}

func TestHandle(t *testing.T) {
	rec := post(&stubService{resp: &models.AuthResponse{UserName: "Ivan", IsAdmin: true}}, `{"telegramId":42}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Пользователь аутентифицирован","userName":"Ivan","isAdmin":true}`, rec.Body.String())
}

func TestHandle_Unknown(t *testing.T) {
	rec := post(&stubService{err: users.ErrUserNotFound}, `{"telegramId":42}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandle_MissingID(t *testing.T) {
	rec := post(&stubService{}, `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
