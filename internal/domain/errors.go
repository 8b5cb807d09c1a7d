package domain

import "errors"

var (
	// ErrStorageConflict is returned when creating a record that already exists
	ErrStorageConflict = errors.New("storage conflict")
	// ErrStorage wraps unexpected persistence failures
	ErrStorage = errors.New("storage error")

	ErrNoWordsAvailable       = errors.New("no words available")
	ErrInsufficientVocabulary = errors.New("insufficient vocabulary for a question")
	ErrWordNotFound           = errors.New("word not found")
	ErrUserNotFound           = errors.New("user not found")
)
