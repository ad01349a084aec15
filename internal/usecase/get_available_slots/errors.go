package get_available_slots

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь с таким telegram ID не зарегистрирован
	ErrUserNotFound = errors.New("get_available_slots: user not found")

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("get_available_slots: invalid date")

	// ErrInvalidRange возвращается при недопустимой длине периода
	ErrInvalidRange = errors.New("get_available_slots: invalid range")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
