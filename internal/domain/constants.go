package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes = 30
	DefaultSlotCapacity        = 4
	DefaultMinDurationMinutes  = 90 // 3 слота по 30 минут
	DefaultScheduleDays        = 7
	DefaultDayStart            = "08:00:00"
	DefaultDayEnd              = "18:00:00"
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 240
	MaxSlotCapacity        = 100
	MaxScheduleDays        = 90
	MaxNameLength          = 100
	MaxPhoneLength         = 32
)

// Time format constants
const (
	TimeFormat = "15:04:05"   // HH:MM:SS
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
