package testutil

import (
	"englishcard/internal/domain"
	"time"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(id, telegramID int64, firstName string) *domain.User {
	return &domain.User{
		ID:         id,
		TelegramID: telegramID,
		FirstName:  firstName,
		CreatedAt:  time.Now(),
	}
}

// NewTestWord creates a test word
func NewTestWord(id int64, english, russian string) *domain.Word {
	return &domain.Word{
		ID:        id,
		English:   english,
		Russian:   russian,
		CreatedAt: time.Now(),
	}
}
