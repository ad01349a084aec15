package bookings

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь с таким telegram ID не зарегистрирован
	ErrUserNotFound = errors.New("bookings: user not found")

	// ErrBookingNotFound бронирование не существует или принадлежит другому пользователю
	ErrBookingNotFound = errors.New("bookings: booking not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings: invalid input data")

	// ErrSaveFailed возвращается, если удаление не удалось и транзакция откачена
	ErrSaveFailed = errors.New("bookings: failed to save changes")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
