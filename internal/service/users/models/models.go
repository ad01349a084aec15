package models

import (
	"time"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
)

// RegisterRequest запрос на регистрацию
type RegisterRequest struct {
	TelegramID  int64   `json:"telegramId"`
	FirstName   string  `json:"firstName"`
	SecondName  *string `json:"secondName,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Age         *int    `json:"age,omitempty"`
}

// ToDomain конвертирует запрос в domain.User
func (r *RegisterRequest) ToDomain() *domain.User {
	return &domain.User{
		TelegramID:  r.TelegramID,
		FirstName:   r.FirstName,
		SecondName:  r.SecondName,
		PhoneNumber: r.PhoneNumber,
		Age:         r.Age,
	}
}

// UserResponse пользователь
type UserResponse struct {
	ID          int64     `json:"id"`
	TelegramID  int64     `json:"telegramId"`
	FirstName   string    `json:"firstName"`
	SecondName  *string   `json:"secondName,omitempty"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
	Age         *int      `json:"age,omitempty"`
	IsAdmin     bool      `json:"isAdmin"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AuthResponse результат проверки регистрации
type AuthResponse struct {
	UserName string `json:"userName"`
	IsAdmin  bool   `json:"isAdmin"`
}

// FromDomainUser конвертирует domain.User в ответ
func FromDomainUser(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		TelegramID:  u.TelegramID,
		FirstName:   u.FirstName,
		SecondName:  u.SecondName,
		PhoneNumber: u.PhoneNumber,
		Age:         u.Age,
		IsAdmin:     u.IsAdmin,
		CreatedAt:   u.CreatedAt,
	}
}
