package availability

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

var testDate = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

// halfHourGrid 30-минутные слоты [from, to) с последовательными ID
func halfHourGrid(from, to string) []*domain.TimeSlot {
	slots := make([]*domain.TimeSlot, 0)
	cur := types.MustTimeString(from)
	end := types.MustTimeString(to)
	id := int64(1)
	for cur.IsBefore(end) {
		next := cur.AddMinutes(30)
		slots = append(slots, &domain.TimeSlot{
			ID:        id,
			Date:      testDate,
			StartTime: cur,
			EndTime:   next,
			Visitors:  []int64{},
		})
		cur = next
		id++
	}
	return slots
}

func starts(slots []*domain.TimeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime.String())
	}
	return out
}

func without(slots []*domain.TimeSlot, start string) []*domain.TimeSlot {
	out := make([]*domain.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.StartTime.String() != start {
			out = append(out, s)
		}
	}
	return out
}

func newTestFinder() *Finder {
	return NewFinder(domain.DefaultBookingPolicy())
}

func TestEligibleSlots(t *testing.T) {
	grid := halfHourGrid("09:00", "11:00")
	grid[0].Visitors = []int64{1, 2, 3, 4} // полный
	grid[1].Visitors = []int64{42}         // уже записан
	grid[2].Visitors = []int64{1, 2, 3}

	got := newTestFinder().EligibleSlots(grid, 42)

	assert.Equal(t, []string{"10:00:00", "10:30:00"}, starts(got))
}

func TestEligibleSlots_SortsExplicitly(t *testing.T) {
	grid := halfHourGrid("09:00", "10:30")
	shuffled := []*domain.TimeSlot{grid[2], grid[0], grid[1]}

	got := newTestFinder().EligibleSlots(shuffled, 42)

	assert.Equal(t, []string{"09:00:00", "09:30:00", "10:00:00"}, starts(got))
	assert.Equal(t, "10:00:00", shuffled[0].StartTime.String(), "input must not be reordered")
}

func TestExtractRun(t *testing.T) {
	tests := []struct {
		name    string
		slots   func() []*domain.TimeSlot
		start   string
		end     string
		want    []string
		wantErr error
	}{
		{
			name:  "three half-hour slots",
			slots: func() []*domain.TimeSlot { return halfHourGrid("09:00", "18:00") },
			start: "09:00:00",
			end:   "10:30:00",
			want:  []string{"09:00:00", "09:30:00", "10:00:00"},
		},
		{
			name:  "run in the middle of the day",
			slots: func() []*domain.TimeSlot { return halfHourGrid("09:00", "18:00") },
			start: "14:00:00",
			end:   "16:00:00",
			want:  []string{"14:00:00", "14:30:00", "15:00:00", "15:30:00"},
		},
		{
			name:    "no slot at requested start",
			slots:   func() []*domain.TimeSlot { return halfHourGrid("09:30", "18:00") },
			start:   "09:00:00",
			end:     "10:30:00",
			wantErr: ErrNoStartSlot,
		},
		{
			name: "gap stops the walk",
			slots: func() []*domain.TimeSlot {
				return without(halfHourGrid("09:00", "18:00"), "09:30:00")
			},
			start:   "09:00:00",
			end:     "10:30:00",
			wantErr: ErrRunIncomplete,
		},
		{
			name:    "run reaches end of day",
			slots:   func() []*domain.TimeSlot { return halfHourGrid("17:00", "18:00") },
			start:   "17:00:00",
			end:     "18:30:00",
			wantErr: ErrRunIncomplete,
		},
		{
			name:    "no slots at all",
			slots:   func() []*domain.TimeSlot { return nil },
			start:   "09:00:00",
			end:     "10:30:00",
			wantErr: ErrNoStartSlot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFinder()
			eligible := f.EligibleSlots(tt.slots(), 42)

			run, err := f.ExtractRun(eligible, types.MustTimeString(tt.start), types.MustTimeString(tt.end))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, run)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, starts(run)); diff != "" {
				t.Errorf("run mismatch (-want +got):\n%s", diff)
			}
			assert.True(t, IsContiguous(run))
		})
	}
}

func TestExtractRun_FullStartSlotMessage(t *testing.T) {
	grid := halfHourGrid("09:00", "18:00")
	grid[0].Visitors = []int64{1, 2, 3, 4}
	f := newTestFinder()

	_, err := f.ExtractRun(f.EligibleSlots(grid, 42), types.MustTimeString("09:00:00"), types.MustTimeString("10:30:00"))

	require.ErrorIs(t, err, ErrNoStartSlot)
	assert.Equal(t, "no available slot found starting at 09:00:00", err.Error())
}

func TestExtractRun_GapDoesNotShiftToLaterRun(t *testing.T) {
	// 09:00 доступен, 09:30 занят пользователем, дальше всё свободно
	grid := halfHourGrid("09:00", "12:00")
	grid[1].Visitors = []int64{42}
	f := newTestFinder()

	_, err := f.ExtractRun(f.EligibleSlots(grid, 42), types.MustTimeString("09:00:00"), types.MustTimeString("10:30:00"))

	assert.ErrorIs(t, err, ErrRunIncomplete)
}

func TestTrainingStarts(t *testing.T) {
	grid := halfHourGrid("09:00", "12:00")
	grid[3].Visitors = []int64{1, 2, 3, 4} // 10:30 полный
	f := newTestFinder()

	got := f.TrainingStarts(f.EligibleSlots(grid, 42))

	// после занятого 10:30 остается только два смежных слота
	assert.Equal(t, []string{"09:00:00"}, starts(got))
}

func TestTrainingStarts_OverlappingWindows(t *testing.T) {
	f := newTestFinder()

	got := f.TrainingStarts(f.EligibleSlots(halfHourGrid("09:00", "11:00"), 42))

	assert.Equal(t, []string{"09:00:00", "09:30:00"}, starts(got))
}

func TestTrainingStarts_MinimumIsConfigurable(t *testing.T) {
	// при минимуме 60 минут окно из двух слотов
	f := NewFinder(domain.BookingPolicy{SlotDurationMinutes: 30, SlotCapacity: 4, MinDurationMinutes: 60})

	got := f.TrainingStarts(f.EligibleSlots(halfHourGrid("09:00", "10:30"), 42))

	assert.Equal(t, []string{"09:00:00", "09:30:00"}, starts(got))
}

func TestTrainingStarts_Empty(t *testing.T) {
	f := newTestFinder()

	assert.Empty(t, f.TrainingStarts(nil))
	assert.Empty(t, f.TrainingStarts(halfHourGrid("09:00", "10:00")))
}

func TestRequiredSlots(t *testing.T) {
	f := newTestFinder()

	assert.Equal(t, 3, f.RequiredSlots(types.MustTimeString("09:00"), types.MustTimeString("10:30")))
	assert.Equal(t, 2, f.RequiredSlots(types.MustTimeString("09:00"), types.MustTimeString("10:00")))
}
