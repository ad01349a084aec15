package seed_schedule

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

// memSlots хранит слоты с уникальностью по (дата, начало, конец)
type memSlots struct {
	keys        map[string]bool
	deleteCalls []time.Time
	err         error
}

func newMemSlots() *memSlots {
	return &memSlots{keys: map[string]bool{}}
}

func (m *memSlots) CreateBatch(_ context.Context, slots []*domain.TimeSlot) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	inserted := 0
	for _, s := range slots {
		key := fmt.Sprintf("%s %s %s", s.Date.Format(domain.DateFormat), s.StartTime, s.EndTime)
		if !m.keys[key] {
			m.keys[key] = true
			inserted++
		}
	}
	return inserted, nil
}

func (m *memSlots) DeleteUnreferencedBefore(_ context.Context, date time.Time) (int64, error) {
	m.deleteCalls = append(m.deleteCalls, date)
	return 5, nil
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func defaultWindow() domain.ScheduleWindow {
	return domain.ScheduleWindow{
		DayStart: types.MustTimeString(domain.DefaultDayStart),
		DayEnd:   types.MustTimeString(domain.DefaultDayEnd),
	}
}

func newUseCase(repo SlotRepository) *UseCase {
	uc := NewUseCase(repo, passthroughTx{}, defaultWindow(), domain.DefaultSlotDurationMinutes, domain.DefaultScheduleDays, nopLogger{})
	uc.timeProvider = fixedTime{now: time.Date(2024, 6, 3, 15, 45, 0, 0, time.UTC)}
	return uc
}

func TestGenerateDaySlots(t *testing.T) {
	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	slots, err := generateDaySlots(date, defaultWindow(), 30)

	require.NoError(t, err)
	require.Len(t, slots, 20)
	assert.Equal(t, "08:00:00", slots[0].StartTime.String())
	assert.Equal(t, "17:30:00", slots[19].StartTime.String())
	assert.Equal(t, "18:00:00", slots[19].EndTime.String())
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].Precedes(slots[i]))
	}
}

func TestGenerateDaySlots_PartialTailDropped(t *testing.T) {
	window := domain.ScheduleWindow{DayStart: types.MustTimeString("09:00"), DayEnd: types.MustTimeString("10:45")}

	slots, err := generateDaySlots(time.Now(), window, 30)

	require.NoError(t, err)
	assert.Len(t, slots, 3)
}

func TestGenerateDaySlots_InvalidWindow(t *testing.T) {
	window := domain.ScheduleWindow{DayStart: types.MustTimeString("18:00"), DayEnd: types.MustTimeString("08:00")}

	_, err := generateDaySlots(time.Now(), window, 30)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = generateDaySlots(time.Now(), defaultWindow(), 0)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestExecute_Idempotent(t *testing.T) {
	repo := newMemSlots()
	uc := newUseCase(repo)

	first, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)
	assert.Equal(t, 7*20, first.Inserted)
	assert.Equal(t, 0, first.Skipped)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), first.From)

	second, err := uc.Execute(context.Background(), &Request{Days: 8})
	require.NoError(t, err)
	assert.Equal(t, 20, second.Inserted)
	assert.Equal(t, 7*20, second.Skipped)
	assert.Empty(t, repo.deleteCalls)
}

func TestExecute_Cleanup(t *testing.T) {
	repo := newMemSlots()
	from := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

	resp, err := newUseCase(repo).Execute(context.Background(), &Request{From: from, Days: 1, Cleanup: true})

	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.Deleted)
	assert.Equal(t, []time.Time{time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)}, repo.deleteCalls)
}

func TestExecute_Errors(t *testing.T) {
	repo := newMemSlots()
	uc := newUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{Days: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{Days: domain.MaxScheduleDays + 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	repo.err = errors.New("connection refused")
	_, err = uc.Execute(context.Background(), &Request{Days: 1})
	assert.ErrorIs(t, err, ErrInternal)
}
