// Package ledger единственное место, где меняются бронирования,
// связи бронирование-слот и списки посетителей слотов.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TrainingBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/availability"
)

type Ledger struct {
	repo      BookingRepository
	txManager TransactionManager
	capacity  int
	logger    Logger
}

func NewLedger(repo BookingRepository, txManager TransactionManager, capacity int, logger Logger) *Ledger {
	return &Ledger{
		repo:      repo,
		txManager: txManager,
		capacity:  capacity,
		logger:    logger,
	}
}

// AddBooking вставляет строку бронирования и проставляет ей ID.
// Вызывается вместе с LinkSlots в одной транзакции (см. Book).
func (l *Ledger) AddBooking(ctx context.Context, booking *domain.Booking) error {
	if _, err := l.repo.Create(ctx, booking); err != nil {
		return fmt.Errorf("%w: AddBooking: %w", ErrSaveFailed, err)
	}
	return nil
}

// LinkSlots связывает бронирование со слотами и записывает пользователя в каждый слот.
// Запись посетителя условная: при заполненном слоте вернется ErrSlotFull.
func (l *Ledger) LinkSlots(ctx context.Context, booking *domain.Booking, slots []*domain.TimeSlot) error {
	if booking.ID == 0 {
		return ErrNotPersisted
	}
	if err := validateRun(booking, slots); err != nil {
		return err
	}

	for _, slot := range slots {
		if err := l.repo.LinkSlot(ctx, booking.ID, slot.ID); err != nil {
			return fmt.Errorf("%w: LinkSlots - link slot id=%d: %w", ErrSaveFailed, slot.ID, err)
		}

		if err := l.repo.AddVisitor(ctx, booking.UserID, slot.ID, l.capacity); err != nil {
			if errors.Is(err, bookingRepo.ErrSlotFull) {
				return fmt.Errorf("%w: %s-%s", ErrSlotFull, slot.StartTime, slot.EndTime)
			}
			return fmt.Errorf("%w: LinkSlots - add visitor to slot id=%d: %w", ErrSaveFailed, slot.ID, err)
		}
	}

	return nil
}

// Book атомарно сохраняет бронирование и все его связи.
// Внутри уже открытой транзакции присоединяется к ней.
func (l *Ledger) Book(ctx context.Context, booking *domain.Booking, slots []*domain.TimeSlot) error {
	err := l.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := l.AddBooking(txCtx, booking); err != nil {
			return err
		}
		return l.LinkSlots(txCtx, booking, slots)
	})
	if err != nil {
		booking.ID = 0
		l.logger.Warn("Book: rolled back booking for user=%d, date=%s, start=%s: %v",
			booking.UserID, booking.Date.Format(domain.DateFormat), booking.StartTime, err)

		if errors.Is(err, ErrSlotFull) || errors.Is(err, ErrInvalidRun) || errors.Is(err, ErrSaveFailed) {
			return err
		}
		return fmt.Errorf("%w: Book - transaction: %w", ErrSaveFailed, err)
	}

	for _, slot := range slots {
		slot.AddVisitor(booking.UserID)
	}
	booking.Slots = slots

	l.logger.Info("Book: booking id=%d linked to %d slots", booking.ID, len(slots))
	return nil
}

// RemoveBooking удаляет связи, выписывает пользователя из слотов и удаляет бронирование
func (l *Ledger) RemoveBooking(ctx context.Context, booking *domain.Booking) error {
	err := l.txManager.Do(ctx, func(txCtx context.Context) error {
		slotIDs, err := l.repo.GetLinkedSlotIDs(txCtx, booking.ID)
		if err != nil {
			return err
		}
		if err := l.repo.UnlinkSlots(txCtx, booking.ID); err != nil {
			return err
		}
		if err := l.repo.RemoveVisitor(txCtx, booking.UserID, slotIDs); err != nil {
			return err
		}
		return l.repo.Delete(txCtx, booking.ID)
	})
	if err != nil {
		l.logger.Error("RemoveBooking: rolled back removal of booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: RemoveBooking: %w", ErrSaveFailed, err)
	}

	for _, slot := range booking.Slots {
		slot.RemoveVisitor(booking.UserID)
	}

	l.logger.Info("RemoveBooking: booking id=%d removed", booking.ID)
	return nil
}

// validateRun цепочка непрерывна, начинается в начале бронирования и покрывает его конец
func validateRun(booking *domain.Booking, slots []*domain.TimeSlot) error {
	if len(slots) == 0 {
		return fmt.Errorf("%w: empty run", ErrInvalidRun)
	}
	if !availability.IsContiguous(slots) {
		return fmt.Errorf("%w: gap between slots", ErrInvalidRun)
	}
	if !slots[0].StartTime.Equal(booking.StartTime) {
		return fmt.Errorf("%w: run starts at %s, booking at %s", ErrInvalidRun, slots[0].StartTime, booking.StartTime)
	}
	if last := slots[len(slots)-1]; last.EndTime.IsBefore(booking.EndTime) {
		return fmt.Errorf("%w: run ends at %s, booking at %s", ErrInvalidRun, last.EndTime, booking.EndTime)
	}
	return nil
}
