package seed_schedule

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
)

// UseCase заполнение сетки слотов на несколько дней вперед.
// Повторный запуск не создает дублей.
type UseCase struct {
	slotRepo     SlotRepository
	txManager    TransactionManager
	window       domain.ScheduleWindow
	slotDuration int
	defaultDays  int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	txManager TransactionManager,
	window domain.ScheduleWindow,
	slotDuration int,
	defaultDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		txManager:    txManager,
		window:       window,
		slotDuration: slotDuration,
		defaultDays:  defaultDays,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case заполнения расписания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	from := req.From
	if from.IsZero() {
		from = uc.timeProvider.Now()
	}
	from = truncateToDate(from)

	days := req.Days
	if days == 0 {
		days = uc.defaultDays
	}
	if days < 1 || days > domain.MaxScheduleDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, domain.MaxScheduleDays)
	}

	uc.logger.Info("SeedSchedule: from=%s, days=%d, window=%s-%s, step=%d",
		from.Format(domain.DateFormat), days, uc.window.DayStart, uc.window.DayEnd, uc.slotDuration)

	slots := make([]*domain.TimeSlot, 0)
	for i := 0; i < days; i++ {
		daySlots, err := generateDaySlots(from.AddDate(0, 0, i), uc.window, uc.slotDuration)
		if err != nil {
			return nil, err
		}
		slots = append(slots, daySlots...)
	}

	resp := &Response{From: from, Days: days}

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if req.Cleanup {
			deleted, err := uc.slotRepo.DeleteUnreferencedBefore(txCtx, from)
			if err != nil {
				return fmt.Errorf("%w: failed to delete past slots: %v", ErrInternal, err)
			}
			resp.Deleted = deleted
		}

		inserted, err := uc.slotRepo.CreateBatch(txCtx, slots)
		if err != nil {
			return fmt.Errorf("%w: failed to insert slots: %v", ErrInternal, err)
		}
		resp.Inserted = inserted
		return nil
	})
	if err != nil {
		uc.logger.Error("SeedSchedule: %v", err)
		return nil, err
	}

	resp.Skipped = len(slots) - resp.Inserted

	uc.logger.Info("SeedSchedule: inserted=%d, skipped=%d, deleted=%d", resp.Inserted, resp.Skipped, resp.Deleted)
	return resp, nil
}
