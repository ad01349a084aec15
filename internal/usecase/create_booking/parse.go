package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

type window struct {
	date  time.Time
	start types.TimeString
	end   types.TimeString
}

// parseRequest разбирает дату и интервал; ошибки оборачивают ErrInvalidInput
func parseRequest(req *Request) (window, error) {
	if req.TelegramID <= 0 {
		return window{}, fmt.Errorf("%w: telegramId must be positive", ErrInvalidInput)
	}

	date, err := time.Parse(domain.DateFormat, strings.TrimSpace(req.Date))
	if err != nil {
		return window{}, fmt.Errorf("%w: date %q, expected YYYY-MM-DD", ErrInvalidInput, req.Date)
	}

	start, err := types.NewTimeStringFromString(strings.TrimSpace(req.StartTime))
	if err != nil {
		return window{}, fmt.Errorf("%w: start time %q", ErrInvalidInput, req.StartTime)
	}

	end, err := types.NewTimeStringFromString(strings.TrimSpace(req.EndTime))
	if err != nil {
		return window{}, fmt.Errorf("%w: end time %q", ErrInvalidInput, req.EndTime)
	}

	if !end.IsAfter(start) {
		return window{}, fmt.Errorf("%w: end time %s is not after start time %s", ErrInvalidInput, end, start)
	}

	return window{date: date, start: start, end: end}, nil
}
