package get_bookings

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-TrainingBooking/internal/service/bookings/models"
)

// ToServiceRequest собирает фильтр из query параметров telegramId и date
func ToServiceRequest(query url.Values) (*models.GetBookingsRequest, error) {
	req := &models.GetBookingsRequest{}

	if raw := query.Get("telegramId"); raw != "" {
		telegramID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("telegramId %q: %w", raw, err)
		}
		req.TelegramID = &telegramID
	}

	if date := query.Get("date"); date != "" {
		req.Date = &date
	}

	return req, nil
}
