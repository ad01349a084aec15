// Package availability решает, какие слоты доступны пользователю,
// и собирает из них непрерывные цепочки. Пакет не ходит в хранилище.
package availability

import (
	"fmt"
	"slices"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

type Finder struct {
	policy domain.BookingPolicy
}

func NewFinder(policy domain.BookingPolicy) *Finder {
	return &Finder{policy: policy}
}

// Policy правила вместимости и длительности, с которыми работает Finder
func (f *Finder) Policy() domain.BookingPolicy {
	return f.policy
}

// EligibleSlots оставляет слоты, где пользователя еще нет и есть свободное место.
// Результат отсортирован по дате и времени начала; входной срез не меняется.
func (f *Finder) EligibleSlots(slots []*domain.TimeSlot, userID int64) []*domain.TimeSlot {
	eligible := make([]*domain.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.IsAvailableFor(userID, f.policy.SlotCapacity) {
			eligible = append(eligible, s)
		}
	}

	slices.SortStableFunc(eligible, compareSlots)

	return eligible
}

// ExtractRun собирает цепочку смежных слотов, начинающуюся ровно в start
// и покрывающую end. Разрыв останавливает обход: более поздняя цепочка
// с тем же началом не ищется.
func (f *Finder) ExtractRun(eligible []*domain.TimeSlot, start, end types.TimeString) ([]*domain.TimeSlot, error) {
	run := make([]*domain.TimeSlot, 0)
	startFound := false

	for _, s := range eligible {
		if !startFound {
			if !s.StartTime.Equal(start) {
				continue
			}
			startFound = true
			run = append(run, s)
		} else {
			if !run[len(run)-1].Precedes(s) {
				break
			}
			run = append(run, s)
		}

		if !s.EndTime.IsBefore(end) {
			break
		}
	}

	if !startFound {
		return nil, fmt.Errorf("%w starting at %s", ErrNoStartSlot, start)
	}
	if len(run) == 0 {
		return nil, ErrNoConsecutiveSlots
	}
	if run[len(run)-1].EndTime.IsBefore(end) {
		return nil, ErrRunIncomplete
	}

	return run, nil
}

// TrainingStarts возвращает первые слоты всех окон из MinSlots смежных слотов,
// суммарно не короче минимальной длительности. Окна могут перекрываться.
func (f *Finder) TrainingStarts(eligible []*domain.TimeSlot) []*domain.TimeSlot {
	window := f.policy.MinSlots()
	starts := make([]*domain.TimeSlot, 0)
	if window <= 0 || len(eligible) < window {
		return starts
	}

	for i := 0; i+window <= len(eligible); i++ {
		candidate := eligible[i : i+window]
		if !IsContiguous(candidate) {
			continue
		}
		if totalMinutes(candidate) < f.policy.MinDurationMinutes {
			continue
		}
		starts = append(starts, eligible[i])
	}

	return starts
}

// RequiredSlots сколько слотов покрывает интервал [start, end)
func (f *Finder) RequiredSlots(start, end types.TimeString) int {
	return start.MinutesUntil(end) / f.policy.SlotDurationMinutes
}

// IsContiguous true, если каждый слот начинается там, где закончился предыдущий
func IsContiguous(run []*domain.TimeSlot) bool {
	for i := 1; i < len(run); i++ {
		if !run[i-1].Precedes(run[i]) {
			return false
		}
	}
	return true
}

func totalMinutes(run []*domain.TimeSlot) int {
	total := 0
	for _, s := range run {
		total += s.DurationMinutes()
	}
	return total
}

func compareSlots(a, b *domain.TimeSlot) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	switch {
	case a.StartTime.IsBefore(b.StartTime):
		return -1
	case a.StartTime.IsAfter(b.StartTime):
		return 1
	default:
		return 0
	}
}
