package users

import (
	"context"
	"errors"
	"fmt"

	userRepo "github.com/m04kA/SMC-TrainingBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/users/models"
)

// Service регистрация пользователей и права администратора
type Service struct {
	userRepo  UserRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса пользователей
func NewService(userRepo UserRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		userRepo:  userRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// Register регистрирует пользователя по telegram ID
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error) {
	s.logger.Info("Register: telegram_id=%d", req.TelegramID)

	if err := validateRegisterRequest(req); err != nil {
		s.logger.Warn("Register: validation failed: %v", err)
		return nil, err
	}

	created, err := s.userRepo.Create(ctx, req.ToDomain())
	if err != nil {
		if errors.Is(err, userRepo.ErrUserAlreadyExists) {
			s.logger.Warn("Register: telegram_id=%d already registered", req.TelegramID)
			return nil, ErrUserAlreadyExists
		}
		s.logger.Error("Register: repository error for telegram_id=%d: %v", req.TelegramID, err)
		return nil, fmt.Errorf("%w: Register - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Register: user id=%d registered", created.ID)
	return models.FromDomainUser(created), nil
}

// Authenticate проверяет, что пользователь зарегистрирован
func (s *Service) Authenticate(ctx context.Context, telegramID int64) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("Authenticate: telegram_id=%d not found", telegramID)
			return nil, ErrUserNotFound
		}
		s.logger.Error("Authenticate: repository error for telegram_id=%d: %v", telegramID, err)
		return nil, fmt.Errorf("%w: Authenticate - repository error: %v", ErrInternal, err)
	}

	return &models.AuthResponse{UserName: user.DisplayName(), IsAdmin: user.IsAdmin}, nil
}

// AssignAdmin назначает администратора. Вызывающий должен быть администратором.
func (s *Service) AssignAdmin(ctx context.Context, callerTelegramID, targetTelegramID int64) (*models.UserResponse, error) {
	s.logger.Info("AssignAdmin: caller=%d, target=%d", callerTelegramID, targetTelegramID)

	caller, err := s.userRepo.GetByTelegramID(ctx, callerTelegramID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("AssignAdmin: caller telegram_id=%d not found", callerTelegramID)
			return nil, ErrAccessDenied
		}
		s.logger.Error("AssignAdmin: repository error for caller=%d: %v", callerTelegramID, err)
		return nil, fmt.Errorf("%w: AssignAdmin - get caller: %v", ErrInternal, err)
	}

	if !caller.IsAdmin {
		s.logger.Warn("AssignAdmin: caller telegram_id=%d is not an admin", callerTelegramID)
		return nil, ErrAccessDenied
	}

	return s.GrantAdmin(ctx, targetTelegramID)
}

// GrantAdmin выдает права администратора без проверки вызывающего.
// Используется при первоначальной настройке.
func (s *Service) GrantAdmin(ctx context.Context, telegramID int64) (*models.UserResponse, error) {
	var result *models.UserResponse

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		user, err := s.userRepo.GetByTelegramID(txCtx, telegramID)
		if err != nil {
			if errors.Is(err, userRepo.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("%w: GrantAdmin - get user: %v", ErrInternal, err)
		}

		if user.IsAdmin {
			return ErrUserAlreadyAdmin
		}

		if err := s.userRepo.SetAdmin(txCtx, user.ID, true); err != nil {
			return fmt.Errorf("%w: GrantAdmin - set admin: %v", ErrInternal, err)
		}

		user.IsAdmin = true
		result = models.FromDomainUser(user)
		return nil
	})
	if err != nil {
		s.logger.Warn("GrantAdmin: telegram_id=%d: %v", telegramID, err)
		return nil, err
	}

	s.logger.Info("GrantAdmin: telegram_id=%d is now an admin", telegramID)
	return result, nil
}
