package get_available_slots

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-TrainingBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

type stubUseCase struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	s.got = req
	return s.resp, s.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle_Success(t *testing.T) {
	uc := &stubUseCase{resp: &getAvailableSlots.Response{
		Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		AvailablePeriods: []getAvailableSlots.Slot{{
			ID:             1,
			StartTime:      types.MustTimeString("09:00"),
			EndTime:        types.MustTimeString("09:30"),
			Visitors:       []int64{3},
			AvailableSpots: 3,
			TotalSpots:     4,
		}},
		TrainingStarts: []types.TimeString{types.MustTimeString("09:00")},
	}}

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec,
		httptest.NewRequest(http.MethodGet, "/api/v1/slots?date=2024-06-03&telegramId=42", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"date": "2024-06-03",
		"availablePeriods": [
			{"id":1,"startTime":"09:00:00","endTime":"09:30:00","visitors":[3],"availableSpots":3,"totalSpots":4}
		],
		"trainingStarts": ["09:00:00"]
	}`, rec.Body.String())
	assert.Equal(t, int64(42), *uc.got.TelegramID)
}

func TestHandle_DefaultsToToday(t *testing.T) {
	uc := &stubUseCase{resp: &getAvailableSlots.Response{Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)}}
	h := NewHandler(uc, nopLogger{})
	h.now = func() time.Time { return time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC) }

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/slots", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-06-03", uc.got.Date)
	assert.Nil(t, uc.got.TelegramID)
	assert.JSONEq(t, `{"date":"2024-06-03","availablePeriods":[],"trainingStarts":[]}`, rec.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		err        error
		wantStatus int
	}{
		{name: "unknown user", url: "/api/v1/slots?telegramId=5", err: getAvailableSlots.ErrUserNotFound, wantStatus: http.StatusUnauthorized},
		{name: "bad date", url: "/api/v1/slots?date=x", err: getAvailableSlots.ErrInvalidDate, wantStatus: http.StatusBadRequest},
		{name: "bad telegram id", url: "/api/v1/slots?telegramId=x", wantStatus: http.StatusBadRequest},
		{name: "internal", url: "/api/v1/slots", err: getAvailableSlots.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHandler(&stubUseCase{err: tt.err}, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
