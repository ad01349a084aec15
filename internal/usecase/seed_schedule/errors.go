package seed_schedule

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных параметрах заполнения
	ErrInvalidInput = errors.New("seed_schedule: invalid input data")

	// ErrInvalidSchedule возвращается, если окно дня не делится на слоты
	ErrInvalidSchedule = errors.New("seed_schedule: invalid schedule window")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("seed_schedule: internal error")
)
