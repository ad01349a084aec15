package domain

import "time"

// User registered person identified by a unique telegram id
type User struct {
	ID          int64
	TelegramID  int64
	FirstName   string
	SecondName  *string
	Age         *int
	PhoneNumber *string
	IsAdmin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayName name shown in chat messages
func (u *User) DisplayName() string {
	if u.SecondName != nil && *u.SecondName != "" {
		return u.FirstName + " " + *u.SecondName
	}
	return u.FirstName
}
