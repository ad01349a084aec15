package users

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("users: user not found")

	// ErrUserAlreadyExists возвращается при повторной регистрации
	ErrUserAlreadyExists = errors.New("users: user with this telegram id already exists")

	// ErrUserAlreadyAdmin возвращается, если пользователь уже администратор
	ErrUserAlreadyAdmin = errors.New("users: user is already an admin")

	// ErrAccessDenied возвращается, когда у вызывающего нет прав администратора
	ErrAccessDenied = errors.New("users: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("users: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("users: internal error")
)
