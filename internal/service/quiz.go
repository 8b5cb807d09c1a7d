package service

import (
	"context"
	"math/rand"
	"sync"

	"englishcard/internal/domain"
	"englishcard/internal/repository"
)

const (
	// DistractorCount is the number of wrong choices in a question
	DistractorCount = 3
	// DefaultMaxAttempts bounds the draws spent looking for distractors
	DefaultMaxAttempts = 30
)

// QuizService builds multiple-choice questions
type QuizService struct {
	wordRepo    repository.WordRepository
	maxAttempts int

	rndMux sync.Mutex
	rnd    *rand.Rand
}

// NewQuizService creates a new quiz service. maxAttempts <= 0 selects DefaultMaxAttempts.
func NewQuizService(wordRepo repository.WordRepository, maxAttempts int, rnd *rand.Rand) *QuizService {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(rand.Int63()))
	}
	return &QuizService{
		wordRepo:    wordRepo,
		maxAttempts: maxAttempts,
		rnd:         rnd,
	}
}

// BuildQuestion picks a target word and DistractorCount distinct wrong
// choices for the user. Returns domain.ErrNoWordsAvailable for an empty
// store and domain.ErrInsufficientVocabulary when distinct distractors
// could not be found within the attempt budget.
func (s *QuizService) BuildQuestion(ctx context.Context, userID int64) (*domain.Question, error) {
	target, err := s.wordRepo.PickRandomWord(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrNoWordsAvailable
	}

	seen := map[string]struct{}{target.English: {}}
	choices := make([]string, 0, DistractorCount+1)
	choices = append(choices, target.English)

	for attempt := 0; len(choices) <= DistractorCount; attempt++ {
		if attempt >= s.maxAttempts {
			return nil, domain.ErrInsufficientVocabulary
		}

		word, err := s.wordRepo.PickRandomWord(ctx, userID)
		if err != nil {
			return nil, err
		}
		if word == nil {
			return nil, domain.ErrInsufficientVocabulary
		}
		if _, dup := seen[word.English]; dup {
			continue
		}
		seen[word.English] = struct{}{}
		choices = append(choices, word.English)
	}

	s.shuffle(choices)

	return &domain.Question{
		Prompt:        target.Russian,
		Choices:       choices,
		CorrectWordID: target.ID,
	}, nil
}

// CheckAnswer reports whether answer is exactly the English term of wordID
func (s *QuizService) CheckAnswer(ctx context.Context, wordID int64, answer string) (bool, error) {
	word, err := s.wordRepo.GetWord(ctx, wordID)
	if err != nil {
		return false, err
	}
	if word == nil {
		return false, domain.ErrWordNotFound
	}
	return word.English == answer, nil
}

func (s *QuizService) shuffle(choices []string) {
	s.rndMux.Lock()
	defer s.rndMux.Unlock()
	s.rnd.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
}
