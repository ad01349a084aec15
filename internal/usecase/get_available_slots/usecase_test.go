package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	userRepo "github.com/m04kA/SMC-TrainingBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/availability"
	"github.com/m04kA/SMC-TrainingBooking/pkg/ptr"
	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

type fakeUsers map[int64]*domain.User

func (f fakeUsers) GetByTelegramID(_ context.Context, telegramID int64) (*domain.User, error) {
	if u, ok := f[telegramID]; ok {
		return u, nil
	}
	return nil, userRepo.ErrUserNotFound
}

type fakeSlots struct {
	slots []*domain.TimeSlot
	err   error
	calls int

	rangeFrom, rangeTo time.Time
}

func (f *fakeSlots) GetByDate(context.Context, time.Time) ([]*domain.TimeSlot, error) {
	f.calls++
	return f.slots, f.err
}

func (f *fakeSlots) GetByDateRange(_ context.Context, start, end time.Time) ([]*domain.TimeSlot, error) {
	f.calls++
	f.rangeFrom, f.rangeTo = start, end
	return f.slots, f.err
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func grid(from string, n int) []*domain.TimeSlot {
	slots := make([]*domain.TimeSlot, 0, n)
	cur := types.MustTimeString(from)
	for i := 0; i < n; i++ {
		slots = append(slots, &domain.TimeSlot{
			ID:        int64(i + 1),
			Date:      time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
			StartTime: cur,
			EndTime:   cur.AddMinutes(30),
			Visitors:  []int64{},
		})
		cur = cur.AddMinutes(30)
	}
	return slots
}

func newUseCase(slots *fakeSlots) *UseCase {
	users := fakeUsers{42: {ID: 7, TelegramID: 42}}
	uc := NewUseCase(users, slots, availability.NewFinder(domain.DefaultBookingPolicy()), nopLogger{})
	uc.timeProvider = fixedTime{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	return uc
}

func TestExecute_ExcludesFullAndOwnSlots(t *testing.T) {
	slots := grid("09:00", 6)
	slots[1].Visitors = []int64{7}          // 09:30 уже записан
	slots[5].Visitors = []int64{1, 2, 3, 4} // 11:30 полный
	slots[3].Visitors = []int64{1, 2}

	resp, err := newUseCase(&fakeSlots{slots: slots}).Execute(context.Background(),
		&Request{TelegramID: ptr.Ptr(int64(42)), Date: "2024-06-03"})

	require.NoError(t, err)
	ids := make([]int64, 0)
	for _, s := range resp.AvailablePeriods {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int64{1, 3, 4, 5}, ids)
	assert.Equal(t, 2, resp.AvailablePeriods[2].AvailableSpots)
	assert.Equal(t, 4, resp.AvailablePeriods[2].TotalSpots)
	// 10:00-11:30 единственное окно из трех смежных
	assert.Equal(t, []types.TimeString{types.MustTimeString("10:00")}, resp.TrainingStarts)
}

func TestExecute_WithoutUser(t *testing.T) {
	slots := grid("09:00", 3)
	slots[0].Visitors = []int64{7}

	resp, err := newUseCase(&fakeSlots{slots: slots}).Execute(context.Background(), &Request{Date: "2024-06-03"})

	require.NoError(t, err)
	assert.Len(t, resp.AvailablePeriods, 3)
	assert.Len(t, resp.TrainingStarts, 1)
}

func TestExecute_NothingSeeded(t *testing.T) {
	resp, err := newUseCase(&fakeSlots{}).Execute(context.Background(), &Request{Date: "2024-06-03"})

	require.NoError(t, err)
	assert.Empty(t, resp.AvailablePeriods)
	assert.Empty(t, resp.TrainingStarts)
}

func TestExecute_DateBeforeToday(t *testing.T) {
	slots := &fakeSlots{slots: grid("09:00", 6)}
	uc := newUseCase(slots)
	uc.timeProvider = fixedTime{now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}

	resp, err := uc.Execute(context.Background(), &Request{TelegramID: ptr.Ptr(int64(42)), Date: "2024-06-03"})

	require.NoError(t, err)
	assert.Equal(t, 1, slots.calls)
	assert.Len(t, resp.AvailablePeriods, 6)
	assert.Len(t, resp.TrainingStarts, 4)
}

func dayGrid(day int, from string, n int, firstID int64) []*domain.TimeSlot {
	slots := grid(from, n)
	for i, s := range slots {
		s.ID = firstID + int64(i)
		s.Date = time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC)
	}
	return slots
}

func TestExecuteRange_GroupsByDay(t *testing.T) {
	monday := dayGrid(3, "09:00", 3, 1)
	tuesday := dayGrid(4, "09:00", 4, 10)
	tuesday[1].Visitors = []int64{7} // 09:30 уже записан
	// хранилище отдает слоты по порядку, но finder сортирует сам
	all := append(append([]*domain.TimeSlot{}, tuesday...), monday...)
	slots := &fakeSlots{slots: all}

	resp, err := newUseCase(slots).ExecuteRange(context.Background(),
		&RangeRequest{TelegramID: ptr.Ptr(int64(42)), From: "2024-06-03", Days: 3})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), slots.rangeFrom)
	assert.Equal(t, time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), slots.rangeTo)

	require.Len(t, resp.Days, 3)
	assert.Equal(t, 3, resp.Days[0].AvailableSlots)
	assert.Equal(t, []types.TimeString{types.MustTimeString("09:00")}, resp.Days[0].TrainingStarts)
	// 09:00 | 10:00 10:30: трех смежных нет
	assert.Equal(t, 3, resp.Days[1].AvailableSlots)
	assert.Empty(t, resp.Days[1].TrainingStarts)
	assert.Equal(t, time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), resp.Days[2].Date)
	assert.Zero(t, resp.Days[2].AvailableSlots)
	assert.NotNil(t, resp.Days[2].TrainingStarts)
}

func TestExecuteRange_Defaults(t *testing.T) {
	slots := &fakeSlots{}

	resp, err := newUseCase(slots).ExecuteRange(context.Background(), &RangeRequest{})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), resp.From)
	assert.Len(t, resp.Days, domain.DefaultScheduleDays)
	assert.Equal(t, time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC), slots.rangeTo)
}

func TestExecuteRange_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *RangeRequest
		slots   *fakeSlots
		wantErr error
	}{
		{name: "unknown user", req: &RangeRequest{TelegramID: ptr.Ptr(int64(99))}, slots: &fakeSlots{}, wantErr: ErrUserNotFound},
		{name: "bad from", req: &RangeRequest{From: "03.06.2024"}, slots: &fakeSlots{}, wantErr: ErrInvalidDate},
		{name: "negative days", req: &RangeRequest{Days: -1}, slots: &fakeSlots{}, wantErr: ErrInvalidRange},
		{name: "too many days", req: &RangeRequest{Days: domain.MaxScheduleDays + 1}, slots: &fakeSlots{}, wantErr: ErrInvalidRange},
		{name: "storage", req: &RangeRequest{}, slots: &fakeSlots{err: errors.New("connection refused")}, wantErr: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newUseCase(tt.slots).ExecuteRange(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_Errors(t *testing.T) {
	uc := newUseCase(&fakeSlots{err: errors.New("connection refused")})

	_, err := uc.Execute(context.Background(), &Request{TelegramID: ptr.Ptr(int64(99)), Date: "2024-06-03"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = uc.Execute(context.Background(), &Request{Date: "June 3"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = uc.Execute(context.Background(), &Request{Date: "2024-06-03"})
	assert.ErrorIs(t, err, ErrInternal)
}
