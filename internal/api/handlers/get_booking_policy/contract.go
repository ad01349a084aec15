package get_booking_policy

import "github.com/m04kA/SMC-TrainingBooking/internal/domain"

type PolicyProvider interface {
	Policy() domain.BookingPolicy
}
