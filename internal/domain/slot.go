package domain

import (
	"slices"
	"time"

	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

// TimeSlot bookable interval on a given date.
// Visitors holds internal user IDs currently occupying the slot.
type TimeSlot struct {
	ID        int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Visitors  []int64
	CreatedAt time.Time
}

// DurationMinutes returns the slot length
func (s *TimeSlot) DurationMinutes() int {
	return s.StartTime.MinutesUntil(s.EndTime)
}

// HasVisitor reports whether the user already holds the slot
func (s *TimeSlot) HasVisitor(userID int64) bool {
	return slices.Contains(s.Visitors, userID)
}

// IsFull returns true when capacity is exhausted
func (s *TimeSlot) IsFull(capacity int) bool {
	return len(s.Visitors) >= capacity
}

// IsAvailableFor reports whether the user can still join the slot
func (s *TimeSlot) IsAvailableFor(userID int64, capacity int) bool {
	return !s.HasVisitor(userID) && !s.IsFull(capacity)
}

// FreeSpots number of places left
func (s *TimeSlot) FreeSpots(capacity int) int {
	if free := capacity - len(s.Visitors); free > 0 {
		return free
	}
	return 0
}

// Precedes reports whether next starts exactly where s ends
func (s *TimeSlot) Precedes(next *TimeSlot) bool {
	return s.Date.Equal(next.Date) && s.EndTime.Equal(next.StartTime)
}

// AddVisitor appends the user if not present
func (s *TimeSlot) AddVisitor(userID int64) {
	if !s.HasVisitor(userID) {
		s.Visitors = append(s.Visitors, userID)
	}
}

// RemoveVisitor drops the user from the visitors list
func (s *TimeSlot) RemoveVisitor(userID int64) {
	s.Visitors = slices.DeleteFunc(s.Visitors, func(id int64) bool { return id == userID })
}
