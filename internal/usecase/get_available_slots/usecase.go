package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	userRepo "github.com/m04kA/SMC-TrainingBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/availability"
	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

// UseCase use case для получения доступных слотов на дату
type UseCase struct {
	userRepo     UserRepository
	slotRepo     SlotRepository
	finder       *availability.Finder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	userRepo UserRepository,
	slotRepo SlotRepository,
	finder *availability.Finder,
	logger Logger,
) *UseCase {
	return &UseCase{
		userRepo:     userRepo,
		slotRepo:     slotRepo,
		finder:       finder,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: telegram_id=%v, date=%s", telegramIDForLog(req.TelegramID), req.Date)

	// 1. Пользователь (если указан)
	userID, err := uc.resolveUser(ctx, req.TelegramID)
	if err != nil {
		return nil, err
	}

	// 2. Дата
	date, err := time.Parse(domain.DateFormat, strings.TrimSpace(req.Date))
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid date %q", req.Date)
		return nil, fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidDate, req.Date)
	}

	resp := &Response{
		Date:             date,
		AvailablePeriods: make([]Slot, 0),
		TrainingStarts:   make([]types.TimeString, 0),
	}

	// 3. Слоты и доступность
	slots, err := uc.slotRepo.GetByDate(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get slots for %s: %v", req.Date, err)
		return nil, fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
	}

	eligible := uc.finder.EligibleSlots(slots, userID)
	capacity := uc.finder.Policy().SlotCapacity

	for _, s := range eligible {
		resp.AvailablePeriods = append(resp.AvailablePeriods, Slot{
			ID:             s.ID,
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			Visitors:       s.Visitors,
			AvailableSpots: s.FreeSpots(capacity),
			TotalSpots:     capacity,
		})
	}

	resp.TrainingStarts = startTimes(uc.finder.TrainingStarts(eligible))

	uc.logger.Info("GetAvailableSlots: date=%s, available=%d, training_starts=%d",
		req.Date, len(resp.AvailablePeriods), len(resp.TrainingStarts))

	return resp, nil
}

// ExecuteRange сводка доступности по дням периода одним чтением хранилища.
// Дни без слотов тоже попадают в ответ.
func (uc *UseCase) ExecuteRange(ctx context.Context, req *RangeRequest) (*RangeResponse, error) {
	uc.logger.Info("GetAvailableDays: telegram_id=%v, from=%s, days=%d",
		telegramIDForLog(req.TelegramID), req.From, req.Days)

	userID, err := uc.resolveUser(ctx, req.TelegramID)
	if err != nil {
		return nil, err
	}

	from := truncateToDate(uc.timeProvider.Now())
	if raw := strings.TrimSpace(req.From); raw != "" {
		from, err = time.Parse(domain.DateFormat, raw)
		if err != nil {
			uc.logger.Warn("GetAvailableDays: invalid from date %q", req.From)
			return nil, fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidDate, req.From)
		}
	}

	days := req.Days
	if days == 0 {
		days = domain.DefaultScheduleDays
	}
	if days < 1 || days > domain.MaxScheduleDays {
		uc.logger.Warn("GetAvailableDays: invalid days=%d", req.Days)
		return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidRange, domain.MaxScheduleDays)
	}
	to := from.AddDate(0, 0, days-1)

	slots, err := uc.slotRepo.GetByDateRange(ctx, from, to)
	if err != nil {
		uc.logger.Error("GetAvailableDays: failed to get slots for %s..%s: %v",
			from.Format(domain.DateFormat), to.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
	}

	// EligibleSlots сортирует по дате, так что группы идут по времени начала
	byDate := make(map[string][]*domain.TimeSlot)
	for _, s := range uc.finder.EligibleSlots(slots, userID) {
		key := s.Date.Format(domain.DateFormat)
		byDate[key] = append(byDate[key], s)
	}

	resp := &RangeResponse{From: from, Days: make([]DayAvailability, 0, days)}
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i)
		eligible := byDate[date.Format(domain.DateFormat)]
		resp.Days = append(resp.Days, DayAvailability{
			Date:           date,
			AvailableSlots: len(eligible),
			TrainingStarts: startTimes(uc.finder.TrainingStarts(eligible)),
		})
	}

	uc.logger.Info("GetAvailableDays: from=%s, days=%d, slots=%d",
		from.Format(domain.DateFormat), days, len(slots))

	return resp, nil
}

// resolveUser внутренний ID пользователя; 0, если telegram ID не передан
func (uc *UseCase) resolveUser(ctx context.Context, telegramID *int64) (int64, error) {
	if telegramID == nil {
		return 0, nil
	}

	user, err := uc.userRepo.GetByTelegramID(ctx, *telegramID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("GetAvailableSlots: user telegram_id=%d not found", *telegramID)
			return 0, ErrUserNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get user telegram_id=%d: %v", *telegramID, err)
		return 0, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}
	return user.ID, nil
}

func startTimes(slots []*domain.TimeSlot) []types.TimeString {
	starts := make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.StartTime)
	}
	return starts
}

func telegramIDForLog(id *int64) interface{} {
	if id == nil {
		return "none"
	}
	return *id
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
