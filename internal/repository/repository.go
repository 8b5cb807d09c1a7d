package repository

import (
	"context"

	"englishcard/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	FindUser(ctx context.Context, telegramID int64) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
}

// WordRepository defines word data operations
type WordRepository interface {
	PickRandomWord(ctx context.Context, userID int64) (*domain.Word, error)
	GetWord(ctx context.Context, wordID int64) (*domain.Word, error)
	AddWordForUser(ctx context.Context, userID int64, english, russian string) (domain.AddResult, error)
	RemoveWordForUser(ctx context.Context, userID, wordID int64) error
	CountWordsForUser(ctx context.Context, userID int64) (int, error)
	ListWordsForUser(ctx context.Context, userID int64) ([]domain.WordRef, error)
}
