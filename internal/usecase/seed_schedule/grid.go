package seed_schedule

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
)

// generateDaySlots генерирует сетку слотов на день с начала окна с фиксированным шагом.
// Слот, который вышел бы за конец окна, не создается.
func generateDaySlots(date time.Time, window domain.ScheduleWindow, slotDuration int) ([]*domain.TimeSlot, error) {
	if slotDuration <= 0 {
		return nil, fmt.Errorf("%w: slot duration %d", ErrInvalidSchedule, slotDuration)
	}
	if !window.DayEnd.IsAfter(window.DayStart) {
		return nil, fmt.Errorf("%w: day end %s is not after day start %s", ErrInvalidSchedule, window.DayEnd, window.DayStart)
	}

	slots := make([]*domain.TimeSlot, 0, window.DayStart.MinutesUntil(window.DayEnd)/slotDuration)
	current := window.DayStart

	for current.IsBefore(window.DayEnd) {
		slotEnd := current.AddMinutes(slotDuration)
		if slotEnd.IsAfter(window.DayEnd) || !slotEnd.IsAfter(current) {
			break
		}

		slots = append(slots, &domain.TimeSlot{
			Date:      date,
			StartTime: current,
			EndTime:   slotEnd,
			Visitors:  []int64{},
		})
		current = slotEnd
	}

	return slots, nil
}

// truncateToDate обнуляет время, оставляя дату
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
