package users

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/users/models"
)

func validateRegisterRequest(req *models.RegisterRequest) error {
	if req.TelegramID <= 0 {
		return fmt.Errorf("%w: telegramId must be positive", ErrInvalidInput)
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	if req.FirstName == "" {
		return fmt.Errorf("%w: firstName is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.FirstName) > domain.MaxNameLength {
		return fmt.Errorf("%w: firstName is longer than %d", ErrInvalidInput, domain.MaxNameLength)
	}

	if req.SecondName != nil && utf8.RuneCountInString(*req.SecondName) > domain.MaxNameLength {
		return fmt.Errorf("%w: secondName is longer than %d", ErrInvalidInput, domain.MaxNameLength)
	}

	if req.PhoneNumber != nil && len(*req.PhoneNumber) > domain.MaxPhoneLength {
		return fmt.Errorf("%w: phoneNumber is longer than %d", ErrInvalidInput, domain.MaxPhoneLength)
	}

	if req.Age != nil && *req.Age <= 0 {
		return fmt.Errorf("%w: age must be positive", ErrInvalidInput)
	}

	return nil
}
