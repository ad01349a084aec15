package create_booking

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound возвращается, когда пользователь с таким telegram ID не зарегистрирован
	ErrUserNotFound = errors.New("create_booking: user not found")

	// ErrBookingRequest общая категория отказа; причина доступна через RequestError
	ErrBookingRequest = errors.New("create_booking: booking request rejected")

	// ErrSaveFailed возвращается, если бронирование не удалось сохранить
	ErrSaveFailed = errors.New("create_booking: failed to save booking")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// Причины отказа
var (
	// ErrInvalidInput некорректная дата или время
	ErrInvalidInput = errors.New("invalid input data")

	// ErrDurationTooShort бронирование короче минимальной длительности
	ErrDurationTooShort = errors.New("Booking duration is too short")

	// ErrNotEnoughSlots подходящих слотов меньше, чем требуется
	ErrNotEnoughSlots = errors.New("not enough available slots")
)

// RequestError отказ в бронировании с причиной, которую можно показать пользователю
type RequestError struct {
	Reason error
}

func newRequestError(reason error) *RequestError {
	return &RequestError{Reason: reason}
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", ErrBookingRequest, e.Reason)
}

func (e *RequestError) Unwrap() []error {
	return []error{ErrBookingRequest, e.Reason}
}
