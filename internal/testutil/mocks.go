package testutil

import (
	"context"

	"englishcard/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUser(ctx context.Context, telegramID int64) (*domain.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockWordRepository is a mock for WordRepository
type MockWordRepository struct {
	mock.Mock
}

func (m *MockWordRepository) PickRandomWord(ctx context.Context, userID int64) (*domain.Word, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Word), args.Error(1)
}

func (m *MockWordRepository) GetWord(ctx context.Context, wordID int64) (*domain.Word, error) {
	args := m.Called(ctx, wordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Word), args.Error(1)
}

func (m *MockWordRepository) AddWordForUser(ctx context.Context, userID int64, english, russian string) (domain.AddResult, error) {
	args := m.Called(ctx, userID, english, russian)
	return args.Get(0).(domain.AddResult), args.Error(1)
}

func (m *MockWordRepository) RemoveWordForUser(ctx context.Context, userID, wordID int64) error {
	args := m.Called(ctx, userID, wordID)
	return args.Error(0)
}

func (m *MockWordRepository) CountWordsForUser(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockWordRepository) ListWordsForUser(ctx context.Context, userID int64) ([]domain.WordRef, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WordRef), args.Error(1)
}
