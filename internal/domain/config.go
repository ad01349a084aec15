package domain

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

var ErrInvalidPolicy = errors.New("domain: invalid booking policy")

// BookingPolicy capacity and duration rules shared by listing and creation
type BookingPolicy struct {
	SlotDurationMinutes int
	SlotCapacity        int
	MinDurationMinutes  int
}

// DefaultBookingPolicy 4 places per 30-minute slot, at least 90 minutes per booking
func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		SlotDurationMinutes: DefaultSlotDurationMinutes,
		SlotCapacity:        DefaultSlotCapacity,
		MinDurationMinutes:  DefaultMinDurationMinutes,
	}
}

// Validate checks policy consistency
func (p BookingPolicy) Validate() error {
	if p.SlotDurationMinutes < MinSlotDurationMinutes || p.SlotDurationMinutes > MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot duration %d", ErrInvalidPolicy, p.SlotDurationMinutes)
	}
	if p.SlotCapacity < 1 || p.SlotCapacity > MaxSlotCapacity {
		return fmt.Errorf("%w: capacity %d", ErrInvalidPolicy, p.SlotCapacity)
	}
	if p.MinDurationMinutes <= 0 || p.MinDurationMinutes%p.SlotDurationMinutes != 0 {
		return fmt.Errorf("%w: min duration %d is not a multiple of slot duration %d",
			ErrInvalidPolicy, p.MinDurationMinutes, p.SlotDurationMinutes)
	}
	return nil
}

// MinSlots number of adjacent slots covering the minimum duration
func (p BookingPolicy) MinSlots() int {
	return (p.MinDurationMinutes + p.SlotDurationMinutes - 1) / p.SlotDurationMinutes
}

// MinDurationHours minimum duration as text, e.g. "1.5"
func (p BookingPolicy) MinDurationHours() string {
	return strconv.FormatFloat(float64(p.MinDurationMinutes)/60, 'f', -1, 64)
}

// ScheduleWindow business hours used to seed the slot grid
type ScheduleWindow struct {
	DayStart types.TimeString
	DayEnd   types.TimeString
}
