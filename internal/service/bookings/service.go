package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	"github.com/m04kA/SMC-TrainingBooking/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-TrainingBooking/internal/infra/storage/booking"
	userRepo "github.com/m04kA/SMC-TrainingBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/bookings/models"
)

// Service сервис для просмотра и отмены бронирований
type Service struct {
	bookingRepo BookingRepository
	userRepo    UserRepository
	ledger      Ledger
	txManager   TransactionManager
	publisher   EventPublisher
	metrics     Metrics
	now         func() time.Time
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	userRepo UserRepository,
	ledger Ledger,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		ledger:      ledger,
		txManager:   txManager,
		publisher:   publisher,
		metrics:     metrics,
		now:         time.Now,
		logger:      logger,
	}
}

// GetBookings получает бронирования с необязательными фильтрами по владельцу и дате
func (s *Service) GetBookings(ctx context.Context, req *models.GetBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBookings: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var bookings []*domain.Booking
	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		bookings, err = s.bookingRepo.GetByFilter(txCtx, filter)
		return err
	})
	if err != nil {
		s.logger.Error("GetBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBookings: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// GetUserBookings получает бронирования пользователя.
// Незарегистрированный пользователь получает пустой список.
func (s *Service) GetUserBookings(ctx context.Context, telegramID int64) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: telegram_id=%d", telegramID)

	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return models.FromDomainBookingList(nil), nil
		}
		s.logger.Error("GetUserBookings: failed to get user telegram_id=%d: %v", telegramID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - get user: %v", ErrInternal, err)
	}

	var bookings []*domain.Booking
	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		bookings, err = s.bookingRepo.GetByUserID(txCtx, user.ID)
		return err
	})
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user id=%d: %v", user.ID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user id=%d", len(bookings), user.ID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBooking бронирование пользователя по ID со связанными слотами
func (s *Service) GetBooking(ctx context.Context, telegramID, bookingID int64) (*models.BookingResponse, error) {
	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("GetBooking: failed to get user telegram_id=%d: %v", telegramID, err)
		return nil, fmt.Errorf("%w: GetBooking - get user: %v", ErrInternal, err)
	}

	var booking *domain.Booking
	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		booking, err = s.bookingRepo.GetByIDAndUser(txCtx, bookingID, user.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetBooking: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetBooking - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainBooking(booking)
	return &resp, nil
}

// Cancel удаляет бронирование пользователя вместе со связями.
// Чужое или несуществующее бронирование -> ErrBookingNotFound.
func (s *Service) Cancel(ctx context.Context, telegramID, bookingID int64) error {
	s.logger.Info("Cancel: booking id=%d by telegram_id=%d", bookingID, telegramID)

	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("Cancel: user telegram_id=%d not found", telegramID)
			return ErrUserNotFound
		}
		s.logger.Error("Cancel: failed to get user telegram_id=%d: %v", telegramID, err)
		return fmt.Errorf("%w: Cancel - get user: %v", ErrInternal, err)
	}

	var booking *domain.Booking

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err = s.bookingRepo.GetByIDAndUser(txCtx, bookingID, user.ID)
		if err != nil {
			return err
		}
		return s.ledger.RemoveBooking(txCtx, booking)
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found for user id=%d", bookingID, user.ID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: failed to remove booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel: %w", ErrSaveFailed, err)
	}

	s.metrics.IncBookingCancelled()

	event := events.NewBookingEvent(events.TypeBookingCancelled, booking, user.TelegramID, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Cancel: failed to publish event for booking id=%d: %v", bookingID, err)
	}

	s.logger.Info("Cancel: booking id=%d removed", bookingID)
	return nil
}
