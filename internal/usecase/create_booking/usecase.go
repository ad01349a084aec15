package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	"github.com/m04kA/SMC-TrainingBooking/internal/infra/events"
	userRepo "github.com/m04kA/SMC-TrainingBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/availability"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/ledger"
)

// Метки причин отказа для метрик
const (
	reasonInvalidInput   = "invalid_input"
	reasonTooShort       = "too_short"
	reasonNoStartSlot    = "no_start_slot"
	reasonNotContiguous  = "not_contiguous"
	reasonNotEnoughSlots = "not_enough_slots"
	reasonSlotFull       = "slot_full"
)

// UseCase use case для создания бронирования
type UseCase struct {
	userRepo     UserRepository
	slotRepo     SlotRepository
	ledger       Ledger
	finder       *availability.Finder
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	userRepo UserRepository,
	slotRepo SlotRepository,
	ledger Ledger,
	finder *availability.Finder,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		userRepo:     userRepo,
		slotRepo:     slotRepo,
		ledger:       ledger,
		finder:       finder,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Чтение слотов (FOR UPDATE) и запись через ledger идут в одной сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: telegram_id=%d, date=%s, start=%s, end=%s",
		req.TelegramID, req.Date, req.StartTime, req.EndTime)

	// 1. Пользователь
	user, err := uc.userRepo.GetByTelegramID(ctx, req.TelegramID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: user telegram_id=%d not found", req.TelegramID)
			return nil, ErrUserNotFound
		}
		uc.logger.Error("CreateBooking: failed to get user telegram_id=%d: %v", req.TelegramID, err)
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}

	// 2. Дата и интервал
	w, err := parseRequest(req)
	if err != nil {
		return nil, uc.reject(reasonInvalidInput, err)
	}

	// 3. Минимальная длительность
	policy := uc.finder.Policy()
	count := uc.finder.RequiredSlots(w.start, w.end)
	if count < policy.MinSlots() {
		return nil, uc.reject(reasonTooShort,
			fmt.Errorf("%w; at least %s hours required.", ErrDurationTooShort, policy.MinDurationHours()))
	}

	var booking *domain.Booking

	// 4-6. Поиск цепочки и запись под блокировкой строк слотов
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		slots, err := uc.slotRepo.GetByDate(txCtx, w.date)
		if err != nil {
			return fmt.Errorf("%w: failed to get slots: %w", ErrInternal, err)
		}

		eligible := uc.finder.EligibleSlots(slots, user.ID)

		run, err := uc.finder.ExtractRun(eligible, w.start, w.end)
		if err != nil {
			return newRequestError(err)
		}

		if len(run) < count {
			return newRequestError(ErrNotEnoughSlots)
		}

		booking = &domain.Booking{
			UserID:    user.ID,
			Date:      w.date,
			StartTime: w.start,
			EndTime:   w.end,
		}

		return uc.ledger.Book(txCtx, booking, run)
	})
	if err != nil {
		return nil, uc.handleTxError(req, err)
	}

	uc.metrics.IncBookingCreated()
	uc.logger.Info("CreateBooking: booking id=%d created for user id=%d, slots=%v",
		booking.ID, user.ID, booking.SlotIDs())

	event := events.NewBookingEvent(events.TypeBookingCreated, booking, user.TelegramID, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for booking id=%d: %v", booking.ID, err)
	}

	return &Response{
		ID:        booking.ID,
		Date:      booking.Date,
		StartTime: booking.StartTime,
		EndTime:   booking.EndTime,
		SlotIDs:   booking.SlotIDs(),
		CreatedAt: booking.CreatedAt,
	}, nil
}

func (uc *UseCase) handleTxError(req *Request, err error) error {
	var reqErr *RequestError
	switch {
	case errors.As(err, &reqErr):
		return uc.reject(rejectionLabel(reqErr.Reason), reqErr.Reason)
	case errors.Is(err, ledger.ErrSlotFull):
		// слот заняли параллельным запросом
		return uc.reject(reasonSlotFull, err)
	case errors.Is(err, ErrInternal):
		uc.logger.Error("CreateBooking: telegram_id=%d: %v", req.TelegramID, err)
		return err
	default:
		uc.logger.Error("CreateBooking: failed to save booking for telegram_id=%d: %v", req.TelegramID, err)
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
}

func (uc *UseCase) reject(label string, reason error) error {
	uc.metrics.IncBookingRejected(label)
	uc.logger.Warn("CreateBooking: rejected (%s): %v", label, reason)
	return newRequestError(reason)
}

func rejectionLabel(reason error) string {
	switch {
	case errors.Is(reason, availability.ErrNoStartSlot):
		return reasonNoStartSlot
	case errors.Is(reason, ErrNotEnoughSlots):
		return reasonNotEnoughSlots
	default:
		return reasonNotContiguous
	}
}
