package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	// TimeLayout формат хранения и вывода времени суток
	TimeLayout = "15:04:05"
	// ShortTimeLayout допустимый укороченный формат на входе
	ShortTimeLayout = "15:04"

	secondsPerDay = 24 * 60 * 60
)

var (
	ErrInvalidTimeString = errors.New("invalid time string format")
	ErrTimeOutOfRange    = errors.New("time is out of range")
)

// TimeString время суток без даты (аналог TIME в PostgreSQL).
// Хранится как количество секунд от полуночи.
type TimeString struct {
	seconds int
	valid   bool
}

// NewTimeString создает время из часов и минут
func NewTimeString(hour, minute int) (TimeString, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeString{}, fmt.Errorf("%w: %02d:%02d", ErrTimeOutOfRange, hour, minute)
	}
	return TimeString{seconds: hour*3600 + minute*60, valid: true}, nil
}

// MustTimeString паникует при некорректном значении. Только для констант и тестов.
func MustTimeString(s string) TimeString {
	t, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return t
}

// NewTimeStringFromString парсит "HH:MM:SS" или "HH:MM"
func NewTimeStringFromString(s string) (TimeString, error) {
	parsed, err := time.Parse(TimeLayout, s)
	if err != nil {
		parsed, err = time.Parse(ShortTimeLayout, s)
		if err != nil {
			return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
		}
	}
	return fromClock(parsed), nil
}

func fromClock(t time.Time) TimeString {
	return TimeString{
		seconds: t.Hour()*3600 + t.Minute()*60 + t.Second(),
		valid:   true,
	}
}

// AddMinutes возвращает время, сдвинутое на n минут (по модулю суток)
func (t TimeString) AddMinutes(n int) TimeString {
	s := (t.seconds + n*60) % secondsPerDay
	if s < 0 {
		s += secondsPerDay
	}
	return TimeString{seconds: s, valid: true}
}

// Minutes количество минут от полуночи
func (t TimeString) Minutes() int {
	return t.seconds / 60
}

// MinutesUntil разница other - t в минутах
func (t TimeString) MinutesUntil(other TimeString) int {
	return (other.seconds - t.seconds) / 60
}

func (t TimeString) IsBefore(other TimeString) bool {
	return t.seconds < other.seconds
}

func (t TimeString) IsAfter(other TimeString) bool {
	return t.seconds > other.seconds
}

func (t TimeString) Equal(other TimeString) bool {
	return t.valid == other.valid && t.seconds == other.seconds
}

func (t TimeString) IsZero() bool {
	return !t.valid
}

// Validate проверяет, что время задано
func (t TimeString) Validate() error {
	if !t.valid {
		return ErrInvalidTimeString
	}
	if t.seconds < 0 || t.seconds >= secondsPerDay {
		return ErrTimeOutOfRange
	}
	return nil
}

func (t TimeString) String() string {
	if !t.valid {
		return ""
	}
	return fmt.Sprintf("%02d:%02d:%02d", t.seconds/3600, (t.seconds%3600)/60, t.seconds%60)
}

// Scan реализует sql.Scanner.
// lib/pq отдает колонку TIME как time.Time, текстовый протокол как []byte.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = TimeString{}
		return nil
	case time.Time:
		*t = fromClock(v)
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if !t.valid {
		return nil, nil
	}
	return t.String(), nil
}

func (t TimeString) MarshalJSON() ([]byte, error) {
	if !t.valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *TimeString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TimeString{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeString, err)
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
