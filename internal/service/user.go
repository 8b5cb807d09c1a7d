package service

import (
	"context"
	"errors"

	"englishcard/internal/domain"
	"englishcard/internal/repository"
)

// UserService handles registration of bot users
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates the user on first contact. The second return value
// reports whether the user was created by this call.
func (s *UserService) Register(ctx context.Context, user *domain.User) (*domain.User, bool, error) {
	existing, err := s.userRepo.FindUser(ctx, user.TelegramID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	created, err := s.userRepo.CreateUser(ctx, user)
	if errors.Is(err, domain.ErrStorageConflict) {
		// Lost a race with a concurrent /start from the same account
		existing, err = s.userRepo.FindUser(ctx, user.TelegramID)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, domain.ErrUserNotFound
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// Resolve returns the registered user, or domain.ErrUserNotFound
func (s *UserService) Resolve(ctx context.Context, telegramID int64) (*domain.User, error) {
	user, err := s.userRepo.FindUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
