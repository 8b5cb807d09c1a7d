package service

import (
	"context"
	"fmt"
	"strings"

	"englishcard/internal/domain"
	"englishcard/internal/repository"
)

// WordService handles word-related business logic
type WordService struct {
	wordRepo repository.WordRepository
}

// NewWordService creates a new word service
func NewWordService(wordRepo repository.WordRepository) *WordService {
	return &WordService{wordRepo: wordRepo}
}

// AddedWord describes the outcome of AddWord
type AddedWord struct {
	Result domain.AddResult
	// Count is the user's word count after a successful add
	Count int
}

// AddWord saves a word-translation pair for the user
func (s *WordService) AddWord(ctx context.Context, userID int64, english, russian string) (*AddedWord, error) {
	english = strings.TrimSpace(english)
	russian = strings.TrimSpace(russian)
	if english == "" || russian == "" {
		return nil, fmt.Errorf("word and translation cannot be empty")
	}

	result, err := s.wordRepo.AddWordForUser(ctx, userID, english, russian)
	if err != nil {
		return nil, err
	}

	added := &AddedWord{Result: result}
	if result == domain.AddResultAdded {
		count, err := s.wordRepo.CountWordsForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		added.Count = count
	}
	return added, nil
}

// ListWords returns the user's words for the delete menu
func (s *WordService) ListWords(ctx context.Context, userID int64) ([]domain.WordRef, error) {
	return s.wordRepo.ListWordsForUser(ctx, userID)
}

// RemoveWord unlinks a word from the user
func (s *WordService) RemoveWord(ctx context.Context, userID, wordID int64) error {
	return s.wordRepo.RemoveWordForUser(ctx, userID, wordID)
}

// CountWords returns how many words the user studies
func (s *WordService) CountWords(ctx context.Context, userID int64) (int, error) {
	return s.wordRepo.CountWordsForUser(ctx, userID)
}
