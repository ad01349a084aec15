package ledger

import "errors"

var (
	// ErrSaveFailed сохранение не удалось, транзакция откачена
	ErrSaveFailed = errors.New("ledger: booking save failed")

	// ErrSlotFull слот заполнился или уже занят пользователем к моменту записи
	ErrSlotFull = errors.New("ledger: slot is no longer available")

	// ErrInvalidRun слоты не образуют непрерывную цепочку, покрывающую бронирование
	ErrInvalidRun = errors.New("ledger: slots do not form a contiguous run covering the booking")

	// ErrNotPersisted у бронирования нет ID
	ErrNotPersisted = errors.New("ledger: booking is not persisted")
)
