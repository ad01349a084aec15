package availability

import "errors"

var (
	// ErrNoStartSlot среди доступных нет слота с запрошенным временем начала
	ErrNoStartSlot = errors.New("no available slot found")

	// ErrNoConsecutiveSlots цепочка слотов не собрана
	ErrNoConsecutiveSlots = errors.New("no consecutive slots available for the requested time")

	// ErrRunIncomplete цепочка оборвалась раньше запрошенного окончания
	ErrRunIncomplete = errors.New("requested consecutive slots are not available")
)
