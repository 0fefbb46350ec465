package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub-backend/internal/apperr"
	"github.com/tutorhub/tutorhub-backend/internal/model"
)

// UserService — регистрация и профиль пользователя, пополнение кредитов.
type UserService struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

type RegisterInput struct {
	Email       string
	Phone       string
	FirstName   string
	LastName    string
	IsTutor     bool
	EmailPublic bool
	PhonePublic bool
}

// Register регистрирует пользователя. Email уникален.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if existing != nil {
		s.logger.Debug("User already registered", zap.Int64("user_id", existing.ID))
		return existing, nil
	}

	user := &model.User{
		Email:     model.Visible[string]{Value: in.Email, Public: in.EmailPublic},
		Phone:     model.Visible[string]{Value: in.Phone, Public: in.PhonePublic},
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsTutor:   in.IsTutor,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.Bool("is_tutor", user.IsTutor),
	)

	return user, nil
}

// GetProfile получает профиль. Скрытые контакты видны только владельцу.
func (s *UserService) GetProfile(ctx context.Context, userID, viewerID int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}

	if viewerID == userID {
		// Владелец видит собственные контакты независимо от настроек
		user.Email.Public = true
		user.Phone.Public = true
	}

	return user, nil
}

// UpdateContactVisibility меняет публичность контактов
func (s *UserService) UpdateContactVisibility(ctx context.Context, userID int64, emailPublic, phonePublic bool) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}

	user.Email.Public = emailPublic
	user.Phone.Public = phonePublic
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// TopUpCredits пополняет баланс пользователя
func (s *UserService) TopUpCredits(ctx context.Context, userID int64, amount model.CreditAmount) (*model.User, error) {
	if amount <= 0 {
		return nil, apperr.ErrInvalidAmount
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}

	if err := s.users.AddCredits(ctx, userID, amount); err != nil {
		return nil, err
	}

	s.logger.Info("Credits topped up",
		zap.Int64("user_id", userID),
		zap.String("amount", amount.String()),
	)

	user.Credits += amount
	return user, nil
}
