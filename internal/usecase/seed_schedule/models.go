package seed_schedule

import "time"

// Request модель запроса на заполнение сетки слотов
type Request struct {
	From    time.Time // первый день; нулевое значение - сегодня
	Days    int       // количество дней, 0 - значение по умолчанию
	Cleanup bool      // удалить прошедшие слоты без бронирований
}

// Response итог заполнения
type Response struct {
	From     time.Time
	Days     int
	Inserted int   // новых слотов
	Skipped  int   // уже существовали
	Deleted  int64 // удалено прошедших слотов
}
